package adapter

import (
	"testing"

	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"github.com/kapu/poketeam-kakao-bot-go/internal/iris"
)

func msg(text string) *iris.Message {
	return &iris.Message{Msg: text, Room: "room"}
}

func TestParseMessageAddTeam(t *testing.T) {
	ma := NewMessageAdapter("!")

	// generation + url, no style
	parsed := ma.ParseMessage(msg("!addteam gen9ou https://pokepast.es/abc"))
	if parsed.Type != domain.CommandAddTeam {
		t.Fatalf("type = %s", parsed.Type)
	}
	if parsed.Params["generation"] != "gen9ou" || parsed.Params["url"] != "https://pokepast.es/abc" {
		t.Fatalf("params = %v", parsed.Params)
	}
	if _, ok := parsed.Params["style"]; ok {
		t.Fatal("style set without a style argument")
	}

	// multi-word style between generation and url
	parsed = ma.ParseMessage(msg("!addteam gen9ou hyper offense https://pokepast.es/abc"))
	if parsed.Params["style"] != "hyper offense" {
		t.Fatalf("style = %v", parsed.Params["style"])
	}
	if parsed.Params["url"] != "https://pokepast.es/abc" {
		t.Fatalf("url = %v", parsed.Params["url"])
	}
}

func TestParseMessageTeamWithFilter(t *testing.T) {
	ma := NewMessageAdapter("!")

	parsed := ma.ParseMessage(msg("!team gen9ou flutter mane"))
	if parsed.Type != domain.CommandTeam {
		t.Fatalf("type = %s", parsed.Type)
	}
	if parsed.Params["generation"] != "gen9ou" {
		t.Fatalf("generation = %v", parsed.Params["generation"])
	}
	filter, ok := parsed.Params["filter"].([]string)
	if !ok || len(filter) != 2 || filter[0] != "flutter" || filter[1] != "mane" {
		t.Fatalf("filter = %v", parsed.Params["filter"])
	}

	parsed = ma.ParseMessage(msg("!teams gen9ou"))
	if parsed.Type != domain.CommandTeam {
		t.Fatalf("alias type = %s", parsed.Type)
	}
	if _, ok := parsed.Params["filter"]; ok {
		t.Fatal("filter set without filter terms")
	}
}

func TestParseMessageStyleJoinsLabel(t *testing.T) {
	ma := NewMessageAdapter("!")

	parsed := ma.ParseMessage(msg("!style https://pokepast.es/abc bulky offense"))
	if parsed.Type != domain.CommandStyle {
		t.Fatalf("type = %s", parsed.Type)
	}
	if parsed.Params["url"] != "https://pokepast.es/abc" || parsed.Params["style"] != "bulky offense" {
		t.Fatalf("params = %v", parsed.Params)
	}
}

func TestParseMessageAliases(t *testing.T) {
	ma := NewMessageAdapter("!")

	cases := map[string]domain.CommandType{
		"!add gen9ou https://pokepast.es/a":   domain.CommandAddTeam,
		"!setstyle https://pokepast.es/a x":   domain.CommandStyle,
		"!delteam https://pokepast.es/a":      domain.CommandDeleteTeam,
		"!ban gen9ou Flutter Mane":            domain.CommandDeleteBanned,
		"!commands":                           domain.CommandHelp,
		"!ASK which gen9ou teams run stall?":  domain.CommandAsk,
	}
	for text, want := range cases {
		if parsed := ma.ParseMessage(msg(text)); parsed.Type != want {
			t.Errorf("ParseMessage(%q).Type = %s, want %s", text, parsed.Type, want)
		}
	}
}

func TestParseMessageUnknown(t *testing.T) {
	ma := NewMessageAdapter("!")

	for _, text := range []string{"hello there", "!", "!frobnicate", ""} {
		if parsed := ma.ParseMessage(msg(text)); parsed.Type != domain.CommandUnknown {
			t.Errorf("ParseMessage(%q).Type = %s, want unknown", text, parsed.Type)
		}
	}
	if parsed := ma.ParseMessage(nil); parsed.Type != domain.CommandUnknown {
		t.Errorf("nil message parsed as %s", parsed.Type)
	}
}

func TestParseMessageAskStripsControlChars(t *testing.T) {
	ma := NewMessageAdapter("!")

	parsed := ma.ParseMessage(msg("!ask rain\x00 teams\x1f please"))
	if parsed.Type != domain.CommandAsk {
		t.Fatalf("type = %s", parsed.Type)
	}
	if parsed.Params["question"] != "rain teams please" {
		t.Fatalf("question = %q", parsed.Params["question"])
	}

	if parsed := ma.ParseMessage(msg("!ask \x00\x01")); parsed.Type != domain.CommandUnknown {
		t.Fatal("control-only question accepted")
	}
}

func TestParseMessageRespectsConfiguredPrefix(t *testing.T) {
	ma := NewMessageAdapter("#")

	if parsed := ma.ParseMessage(msg("#help")); parsed.Type != domain.CommandHelp {
		t.Fatalf("type = %s", parsed.Type)
	}
	if parsed := ma.ParseMessage(msg("!help")); parsed.Type != domain.CommandUnknown {
		t.Fatal("wrong prefix accepted")
	}
}
