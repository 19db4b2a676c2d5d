package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"

	"github.com/fatih/color"
)

var fixedNow = time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)

type fakePublisher struct {
	kind   core.Kind
	text   string
	err    error
	closed bool
}

func (f *fakePublisher) PublishRawMessage(_ context.Context, kind core.Kind, text string) (*amqp.RawMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.kind, f.text = kind, text
	return &amqp.RawMessage{ID: "msg-1", Kind: kind, Text: text}, nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func run(t *testing.T, pub *fakePublisher, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	app := NewApp("test",
		WithOutput(&out),
		WithClock(func() time.Time { return fixedNow }),
		WithConfig(&config.Config{LogLevel: "error"}),
		WithPublisherFactory(func(*config.Config, *log.Logger) (Publisher, error) {
			if pub == nil {
				return nil, errors.New("no broker")
			}
			return pub, nil
		}),
	)
	err := app.Execute(context.Background(), args)
	return out.String(), err
}

func TestClassifyCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"match", []string{"classify", "Paid", "SWIGGY", "order"}, []string{"Category: Food", "Subcategory: Food Delivery", "Confidence: 0.90"}},
		{"fallback", []string{"classify", "xyz"}, []string{"Category: Other", "Subcategory: -", "Confidence: 0.40"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, nil, tt.args...)
			if err != nil {
				t.Fatalf("classify: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q missing %q", out, w)
				}
			}
		})
	}
}

func TestClassifyCommand_RequiresText(t *testing.T) {
	if _, err := run(t, nil, "classify"); err == nil {
		t.Error("expected an error without text")
	}
}

func TestExtractCommand(t *testing.T) {
	out, err := run(t, nil, "extract", "--kind", "sms", "₹1,234.56 debited from A/C XXXX1234 at AMAZON")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	for _, w := range []string{"Amount: -1234.56", "Direction: debit", "Category: Shopping", "Date: 2025-05-12", "Account: 1234"} {
		if !strings.Contains(out, w) {
			t.Errorf("output %q missing %q", out, w)
		}
	}
}

func TestExtractCommand_Errors(t *testing.T) {
	if _, err := run(t, nil, "extract", "--kind", "sms", "your OTP is 4411"); !errors.Is(err, services.ErrUnparseable) {
		t.Errorf("unparseable error = %v", err)
	}
	if _, err := run(t, nil, "extract", "--kind", "fax", "Rs 100 debited"); !errors.Is(err, core.ErrInvalidKind) {
		t.Errorf("bad kind error = %v", err)
	}
}

func TestProjectCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr bool
	}{
		{
			name: "with income",
			args: []string{"project", "--target", "12000", "--deadline", "2026-05-07", "--income", "10000"},
			want: []string{"Monthly: 1000", "Weekly: 231", "Of income: 10.00%", "Feasibility: easily achievable"},
		},
		{
			name: "challenging",
			args: []string{"project", "--target", "12000", "--deadline", "2026-05-07", "--income", "3000"},
			want: []string{"Of income: 33.33%", "Feasibility: challenging"},
		},
		{
			name: "without income",
			args: []string{"project", "--target", "12000", "--saved", "6000", "--deadline", "2026-05-07"},
			want: []string{"Monthly: 1000", "Feasibility: unable to calculate without income data"},
		},
		{name: "missing target", args: []string{"project", "--deadline", "2026-05-07"}, wantErr: true},
		{name: "zero target", args: []string{"project", "--target", "0", "--deadline", "2026-05-07"}, wantErr: true},
		{name: "bad deadline", args: []string{"project", "--target", "10", "--deadline", "soon"}, wantErr: true},
		{name: "negative income", args: []string{"project", "--target", "10", "--deadline", "2026-05-07", "--income", "-1"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, nil, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("project error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q missing %q", out, w)
				}
			}
		})
	}
}

func TestPublishCommand(t *testing.T) {
	pub := &fakePublisher{}
	out, err := run(t, pub, "publish", "--kind", "email", "Payment", "of", "Rs.", "300", "received")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if pub.kind != core.KindEmail || pub.text != "Payment of Rs. 300 received" {
		t.Errorf("published %q/%q", pub.kind, pub.text)
	}
	if !pub.closed {
		t.Error("publisher not closed")
	}
	if !strings.Contains(out, "Queued: msg-1") {
		t.Errorf("output = %q", out)
	}
}

func TestPublishCommand_Errors(t *testing.T) {
	if _, err := run(t, nil, "publish", "Rs 100 debited"); err == nil {
		t.Error("expected broker error")
	}
	if _, err := run(t, &fakePublisher{}, "publish", "--kind", "fax", "Rs 100 debited"); !errors.Is(err, core.ErrInvalidKind) {
		t.Errorf("bad kind error = %v", err)
	}
	failing := &fakePublisher{err: amqp.ErrCircuitOpen}
	if _, err := run(t, failing, "publish", "Rs 100 debited"); !errors.Is(err, amqp.ErrCircuitOpen) {
		t.Errorf("publish error = %v", err)
	}
}
