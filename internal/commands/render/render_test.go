package render

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
		{-999, "-999"},
	}
	for _, tt := range tests {
		if got := Number(tt.in); got != tt.want {
			t.Errorf("Number(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percent float64
		want    string
	}{
		{0, "░░░░░░░░░░"},
		{9.9, "░░░░░░░░░░"},
		{45, "▓▓▓▓░░░░░░"},
		{100, "▓▓▓▓▓▓▓▓▓▓"},
		{150, "▓▓▓▓▓▓▓▓▓▓"},
		{-5, "░░░░░░░░░░"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.percent, "▓", "░"); got != tt.want {
			t.Errorf("ProgressBar(%v) = %q, want %q", tt.percent, got, tt.want)
		}
	}
}

func TestMedal(t *testing.T) {
	want := []string{"🥇", "🥈", "🥉", "**4.**"}
	for i, w := range want {
		if got := Medal(i + 1); got != w {
			t.Errorf("Medal(%d) = %q, want %q", i+1, got, w)
		}
	}
	if RankEmoji(7) != "🏅" || RankEmoji(2) != "🥈" {
		t.Error("RankEmoji mismatch")
	}
}

func TestTimestamp(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	if got := Timestamp(ts, "D"); got != "<t:1700000000:D>" {
		t.Errorf("Timestamp() = %q", got)
	}
}

func TestSnowflakeTime(t *testing.T) {
	// 175928847299117063 is the example ID from the Discord docs
	got, ok := SnowflakeTime("175928847299117063")
	if !ok {
		t.Fatal("valid snowflake rejected")
	}
	if got.UTC().Year() != 2016 {
		t.Errorf("year = %d, want 2016", got.UTC().Year())
	}
	if _, ok := SnowflakeTime("abc"); ok {
		t.Error("invalid snowflake accepted")
	}
}

func TestDisplayName(t *testing.T) {
	u := &discordgo.User{Username: "pancy", GlobalName: "Pancy"}
	if got := DisplayName(&discordgo.Member{Nick: "Mod", User: u}, u); got != "Mod" {
		t.Errorf("nick: got %q", got)
	}
	if got := DisplayName(&discordgo.Member{User: u}, nil); got != "Pancy" {
		t.Errorf("global name: got %q", got)
	}
	if got := DisplayName(nil, &discordgo.User{Username: "pancy"}); got != "pancy" {
		t.Errorf("username: got %q", got)
	}
	if got := DisplayName(nil, nil); got != "Desconocido" {
		t.Errorf("nil: got %q", got)
	}
}
