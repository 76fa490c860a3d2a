package models

import (
	"reflect"
	"testing"
)

func TestSettingsMapRoundTrip(t *testing.T) {
	in := Settings{
		Timezone:          "Africa/Lagos",
		DefaultChecklists: []string{"jamb-utme", "documents"},
		Locale:            "en-NG",
	}

	out := MapToSettings(SettingsToMap(in))
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestMapToSettings_SkipsBlankListEntries(t *testing.T) {
	s := MapToSettings(map[string]string{"default_checklists": " a, ,b,"})
	want := []string{"a", "b"}
	if !reflect.DeepEqual(s.DefaultChecklists, want) {
		t.Errorf("DefaultChecklists = %v, want %v", s.DefaultChecklists, want)
	}
}

func TestApplyDefaultSettings(t *testing.T) {
	var s Settings
	ApplyDefaultSettings(&s)
	if s.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want UTC", s.Timezone)
	}
	if s.Locale != "en-NG" {
		t.Errorf("Locale = %q, want en-NG", s.Locale)
	}

	s = Settings{Timezone: "Africa/Lagos"}
	ApplyDefaultSettings(&s)
	if s.Timezone != "Africa/Lagos" {
		t.Errorf("existing timezone overwritten: %q", s.Timezone)
	}
}

func TestCompletionStateClone(t *testing.T) {
	c := CompletionState{"a": true}
	d := c.Clone()
	d["a"] = false
	if !c["a"] {
		t.Error("Clone shares storage with original")
	}
	if c.IsComplete("missing") {
		t.Error("missing key reported complete")
	}
}
