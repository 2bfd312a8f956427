package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/predation/config"
)

func newTestServer(t *testing.T, opts Options) (*Server, *websocket.Conn) {
	t.Helper()
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return s, conn
}

// readType reads messages until one of type typ arrives and decodes it into v.
func readType(t *testing.T, conn *websocket.Conn, typ string, v any) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("reading %q message: %v", typ, err)
		}
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &head); err != nil {
			t.Fatalf("bad message %s: %v", data, err)
		}
		if head.Type != typ {
			continue
		}
		if err := json.Unmarshal(data, v); err != nil {
			t.Fatalf("decoding %q message: %v", typ, err)
		}
		return
	}
}

func TestHelloAndInitialFrame(t *testing.T) {
	_, conn := newTestServer(t, Options{Seed: 1, Paused: true})

	var hello Hello
	readType(t, conn, TypeConfig, &hello)
	if hello.Height != 20 || hello.Width != 20 {
		t.Errorf("grid = %dx%d, want 20x20", hello.Height, hello.Width)
	}
	if !hello.Paused {
		t.Error("hello.Paused = false for a paused server")
	}
	if len(hello.Sliders) != len(config.Sliders()) {
		t.Errorf("got %d sliders, want %d", len(hello.Sliders), len(config.Sliders()))
	}

	var frame Frame
	readType(t, conn, TypeState, &frame)
	if frame.Tick != 0 || frame.Prey != 100 || frame.Predators != 50 {
		t.Errorf("initial frame = tick %d, %d prey, %d predators", frame.Tick, frame.Prey, frame.Predators)
	}
	if len(frame.Agents) != 100+50+400 {
		t.Errorf("frame has %d agents, want 550", len(frame.Agents))
	}
}

func TestStepBroadcastsFrame(t *testing.T) {
	_, conn := newTestServer(t, Options{Seed: 2, Paused: true})

	var frame Frame
	readType(t, conn, TypeState, &frame)

	if err := conn.WriteJSON(Control{Type: ControlStep}); err != nil {
		t.Fatal(err)
	}
	readType(t, conn, TypeState, &frame)
	if frame.Tick != 1 {
		t.Errorf("tick after step = %d, want 1", frame.Tick)
	}
}

func TestPauseResume(t *testing.T) {
	_, conn := newTestServer(t, Options{Seed: 3, Paused: true})

	var status Status
	if err := conn.WriteJSON(Control{Type: ControlResume}); err != nil {
		t.Fatal(err)
	}
	readType(t, conn, TypeStatus, &status)
	if status.Paused {
		t.Error("status after resume reports paused")
	}

	if err := conn.WriteJSON(Control{Type: ControlPause}); err != nil {
		t.Fatal(err)
	}
	readType(t, conn, TypeStatus, &status)
	if !status.Paused {
		t.Error("status after pause reports running")
	}
}

func TestResetAppliesParams(t *testing.T) {
	_, conn := newTestServer(t, Options{Seed: 4, Paused: true})

	var frame Frame
	readType(t, conn, TypeState, &frame)

	grass := true
	seed := int64(99)
	err := conn.WriteJSON(Control{
		Type:   ControlReset,
		Params: map[string]float64{"initial_prey": 30, "initial_predators": 7},
		Forage: &grass,
		Seed:   &seed,
	})
	if err != nil {
		t.Fatal(err)
	}

	var hello Hello
	readType(t, conn, TypeConfig, &hello)
	if hello.Seed != 99 {
		t.Errorf("hello.Seed = %d, want 99", hello.Seed)
	}
	for _, s := range hello.Sliders {
		if s.Name == "initial_prey" && s.Value != 30 {
			t.Errorf("initial_prey slider = %v, want 30", s.Value)
		}
	}

	readType(t, conn, TypeState, &frame)
	if frame.Tick != 0 || frame.Prey != 30 || frame.Predators != 7 {
		t.Errorf("frame after reset = tick %d, %d prey, %d predators; want 0, 30, 7",
			frame.Tick, frame.Prey, frame.Predators)
	}
}

func TestResetRejectsUnknownParam(t *testing.T) {
	_, conn := newTestServer(t, Options{Seed: 5, Paused: true})

	err := conn.WriteJSON(Control{Type: ControlReset, Params: map[string]float64{"wolf_speed": 3}})
	if err != nil {
		t.Fatal(err)
	}

	var msg ErrorMessage
	readType(t, conn, TypeError, &msg)
	if !strings.Contains(msg.Message, "wolf_speed") {
		t.Errorf("error message %q does not name the parameter", msg.Message)
	}
}

func TestNewRejectsNonPositiveTickInterval(t *testing.T) {
	cfg := config.Defaults()
	cfg.Server.TickIntervalMS = 0
	if _, err := New(Options{Config: cfg, Seed: 1}); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("New with tick_interval_ms 0 = %v, want ErrInvalid", err)
	}
}

func TestApplyControlSnapsToSliderRange(t *testing.T) {
	base := config.Defaults()

	tests := []struct {
		name  string
		param string
		value float64
		get   func(*config.Config) float64
		want  float64
	}{
		{"rounds counts", "initial_prey", 12.7, func(c *config.Config) float64 { return float64(c.Population.InitialPrey) }, 13},
		{"clamps probability", "prey_reproduce", 2, func(c *config.Config) float64 { return c.Prey.Reproduce }, 1},
		{"clamps low", "regrowth_period", 0, func(c *config.Config) float64 { return float64(c.Forage.RegrowthPeriod) }, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := applyControl(base, Control{Type: ControlReset, Params: map[string]float64{tt.param: tt.value}})
			if err != nil {
				t.Fatal(err)
			}
			if got := tt.get(cfg); got != tt.want {
				t.Errorf("%s = %v, want %v", tt.param, got, tt.want)
			}
		})
	}

	if base.Population.InitialPrey != 100 {
		t.Error("applyControl modified its base config")
	}
}

func TestRunTicksUntilCancelled(t *testing.T) {
	s, conn := newTestServer(t, Options{Seed: 6, TickInterval: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	var frame Frame
	for frame.Tick < 3 {
		readType(t, conn, TypeState, &frame)
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
