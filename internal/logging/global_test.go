package logging

import (
	"testing"
)

func TestSetGlobalAndGlobal(t *testing.T) {
	prev := Global()
	defer SetGlobal(prev)

	l := Discard()
	SetGlobal(l)
	if Global() != l {
		t.Error("Global() should return the logger set by SetGlobal")
	}
}

func TestConfigure(t *testing.T) {
	prev := Global()
	defer SetGlobal(prev)

	l := Configure("debug", "text")
	if l.GetLevel() != LevelDebug {
		t.Errorf("Configure level = %v, want debug", l.GetLevel())
	}
	if !l.addCaller {
		t.Error("Configure at debug level should enable caller info")
	}
	if l.format != FormatText {
		t.Error("Configure should honour the format")
	}
	if Global() != l {
		t.Error("Configure should set global logger")
	}

	l = Configure("info", "json")
	if l.addCaller {
		t.Error("Configure at info level should not enable caller info")
	}
}
