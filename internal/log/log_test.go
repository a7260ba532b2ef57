package log

import "testing"

func TestInit(t *testing.T) {
	for _, debug := range []bool{true, false} {
		if err := Init(debug); err != nil {
			t.Fatalf("Init(%v): %v", debug, err)
		}
		if GetZapLogger() == nil {
			t.Fatalf("nil zap logger after Init(%v)", debug)
		}
		Debugf("debug %d", 1)
		Infow("structured", "key", "value")
	}
}

func TestGetSugaredLoggerNamed(t *testing.T) {
	if err := Init(true); err != nil {
		t.Fatalf("Init: %v", err)
	}
	l := GetSugaredLogger("restserver")
	if l == nil {
		t.Fatal("nil logger")
	}
	if got := l.Desugar().Name(); got != "restserver" {
		t.Errorf("logger name = %q, expected restserver", got)
	}
	if GetSugaredLogger("") == nil {
		t.Error("nil unnamed logger")
	}
}
