package prerender

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

func stringArg(s string) *proto.RuntimeRemoteObject {
	return &proto.RuntimeRemoteObject{
		Type:  proto.RuntimeRemoteObjectTypeString,
		Value: gson.New(s),
	}
}

func TestDecodeConsoleEvent(t *testing.T) {
	tests := []struct {
		name     string
		args     []*proto.RuntimeRemoteObject
		severity Severity
		expected Event
	}{
		{
			name:     "structured payload",
			args:     []*proto.RuntimeRemoteObject{stringArg(`{"message":"bad **node**","plugin":"layout","hint":"check ids","elementIds":["a","b"]}`)},
			severity: SeverityError,
			expected: Event{
				Message:      "bad **node**",
				Severity:     SeverityError,
				Plugin:       "layout",
				Hint:         "check ids",
				ElementCount: 2,
			},
		},
		{
			name:     "structured payload without plugin falls back to unknown",
			args:     []*proto.RuntimeRemoteObject{stringArg(`{"message":"whoops"}`)},
			severity: SeverityWarning,
			expected: Event{Message: "whoops", Severity: SeverityWarning, Plugin: UnknownPlugin},
		},
		{
			name:     "plain text single argument",
			args:     []*proto.RuntimeRemoteObject{stringArg("plain warning")},
			severity: SeverityWarning,
			expected: Event{Message: "plain warning", Severity: SeverityWarning, Plugin: UnknownPlugin},
		},
		{
			name:     "multiple arguments joined",
			args:     []*proto.RuntimeRemoteObject{stringArg("a"), stringArg("b")},
			severity: SeverityError,
			expected: Event{Message: "a b", Severity: SeverityError, Plugin: UnknownPlugin},
		},
		{
			name:     "json without message field is plain text",
			args:     []*proto.RuntimeRemoteObject{stringArg(`{"plugin":"x"}`)},
			severity: SeverityWarning,
			expected: Event{Message: `{"plugin":"x"}`, Severity: SeverityWarning, Plugin: UnknownPlugin},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &proto.RuntimeConsoleAPICalled{Args: tt.args}
			got := decodeConsoleEvent(e, tt.severity)
			if got != tt.expected {
				t.Errorf("decodeConsoleEvent = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestRenderSessionRoutesConsoleCalls(t *testing.T) {
	var warnings, errs []Event
	session := newRenderSession(&RenderOptions{
		OnWarning: func(ev Event) { warnings = append(warnings, ev) },
		OnError:   func(ev Event) { errs = append(errs, ev) },
	})

	session.onConsole(&proto.RuntimeConsoleAPICalled{
		Type: proto.RuntimeConsoleAPICalledTypeWarning,
		Args: []*proto.RuntimeRemoteObject{stringArg("w")},
	})
	session.onConsole(&proto.RuntimeConsoleAPICalled{
		Type: proto.RuntimeConsoleAPICalledTypeError,
		Args: []*proto.RuntimeRemoteObject{stringArg("e")},
	})
	// Plain logs are not diagnostics.
	session.onConsole(&proto.RuntimeConsoleAPICalled{
		Type: proto.RuntimeConsoleAPICalledTypeLog,
		Args: []*proto.RuntimeRemoteObject{stringArg("ignored")},
	})

	if len(warnings) != 1 || warnings[0].Message != "w" {
		t.Errorf("warnings = %+v, want [w]", warnings)
	}
	if len(errs) != 1 || errs[0].Message != "e" {
		t.Errorf("errors = %+v, want [e]", errs)
	}

	res := session.result("<html></html>")
	if len(res.Warnings) != 1 || len(res.Errors) != 1 {
		t.Errorf("result carries %d warnings, %d errors; want 1, 1", len(res.Warnings), len(res.Errors))
	}
}

func TestRenderSessionExceptionBecomesError(t *testing.T) {
	var errs []Event
	session := newRenderSession(&RenderOptions{
		OnError: func(ev Event) { errs = append(errs, ev) },
	})

	session.onException(&proto.RuntimeExceptionThrown{
		ExceptionDetails: &proto.RuntimeExceptionDetails{
			Text:       "Uncaught",
			LineNumber: 12,
			URL:        "http://localhost:3000/doc.html",
			Exception: &proto.RuntimeRemoteObject{
				Description: "ReferenceError: renderDocument is not defined",
			},
		},
	})

	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	ev := errs[0]
	if ev.Message != "ReferenceError: renderDocument is not defined" {
		t.Errorf("message = %q, want the exception description", ev.Message)
	}
	if ev.Plugin != UnknownPlugin {
		t.Errorf("plugin = %q, want %q", ev.Plugin, UnknownPlugin)
	}
	if ev.Cause == nil {
		t.Errorf("exception event must chain a cause for verbose diagnostics")
	}
}

func TestRenderSessionNilCallbacksSafe(t *testing.T) {
	session := newRenderSession(&RenderOptions{})

	session.progress("phase", time.Second)
	session.onConsole(&proto.RuntimeConsoleAPICalled{
		Type: proto.RuntimeConsoleAPICalledTypeWarning,
		Args: []*proto.RuntimeRemoteObject{stringArg("w")},
	})

	res := session.result("x")
	if len(res.Warnings) != 1 {
		t.Errorf("accumulation must work without callbacks, got %+v", res)
	}
}

func TestClassify(t *testing.T) {
	r := &rodRenderer{}

	err := r.classify(context.DeadlineExceeded, ErrPageLoad)
	if !errors.Is(err, ErrRenderTimeout) {
		t.Errorf("deadline overrun classified as %v, want ErrRenderTimeout", err)
	}

	err = r.classify(errors.New("net::ERR_CONNECTION_REFUSED"), ErrPageLoad)
	if !errors.Is(err, ErrPageLoad) {
		t.Errorf("generic failure classified as %v, want ErrPageLoad", err)
	}
	if errors.Is(err, ErrRenderTimeout) {
		t.Errorf("generic failure must not be a timeout")
	}
}
