package main

import (
	"context"
	"testing"

	"github.com/spf13/cobra"

	"merlin/internal/caption"
	"merlin/internal/testsupport"
)

func parseStyleFlags(t *testing.T, args ...string) (*cobra.Command, *styleFlags) {
	t.Helper()
	var flags styleFlags
	cmd := &cobra.Command{Use: "test"}
	flags.register(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags %v: %v", args, err)
	}
	return cmd, &flags
}

func TestStyleFlagsDefaultToConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Style.Template = "podcast"
	cmd, flags := parseStyleFlags(t)

	got, err := flags.resolve(context.Background(), cmd, cfg, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want, _ := caption.Template("podcast")
	if got != want.Style {
		t.Fatalf("got %+v, want %+v", got, want.Style)
	}
}

func TestStyleFlagsOverrideOnlyChangedFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cmd, flags := parseStyleFlags(t, "--bg-opacity", "0", "--position", "TOP", "--font-color", "#ff0000")

	got, err := flags.resolve(context.Background(), cmd, cfg, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	def := caption.DefaultStyle()
	if got.BgOpacity != 0 || got.Position != caption.PositionTop || got.FontColor != "#ff0000" {
		t.Fatalf("overrides not applied: %+v", got)
	}
	if got.FontSize != def.FontSize || got.FontFamily != def.FontFamily || got.BgColor != def.BgColor {
		t.Fatalf("unchanged fields drifted: %+v", got)
	}
}

func TestStyleFlagsAutoUsesProbedSize(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithStubScript("ffprobe", testsupport.FFprobeScript("640x480", "1.0")),
	)
	cmd, flags := parseStyleFlags(t, "--auto", "--font-size", "30")

	got, err := flags.resolve(context.Background(), cmd, cfg, "/media/clip.mov")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.FontFamily != "Verdana" || got.FontSize != 30 {
		t.Fatalf("unexpected auto style %+v", got)
	}
}

func TestStyleFlagsRejectInvalid(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	tests := [][]string{
		{"--template", "neon"},
		{"--position", "sideways"},
		{"--bg-opacity", "140"},
		{"--font-color", "white"},
		{"--font-family", "Arial,Bold"},
	}
	for _, args := range tests {
		cmd, flags := parseStyleFlags(t, args...)
		if _, err := flags.resolve(context.Background(), cmd, cfg, ""); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}
