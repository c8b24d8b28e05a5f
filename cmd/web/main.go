package main

import (
	_ "embed"
	"fmt"
	"image/png"
	"math/rand"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/termwall/internal/config"
	"github.com/tomz197/termwall/internal/draw"
	"github.com/tomz197/termwall/internal/field"
	"github.com/tomz197/termwall/internal/loop"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

// Frame rendering limits.
const (
	defaultFrameWidth  = 960
	defaultFrameHeight = 540
	maxFrameWidth      = 1920
	maxFrameHeight     = 1080
	defaultTicks       = 120
	maxTicks           = 3000
	// Image pixels per field unit; presets are tuned for ~160x90 units.
	frameScale = 6.0
	frameTick  = time.Second / 30
)

//go:embed index.html
var htmlPage string

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "web",
	})

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")

	opts, err := loop.EnvOptions()
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	addr := net.JoinHostPort(host, port)
	logger.Info("Starting web server", "addr", "http://"+addr)
	if err := http.ListenAndServe(addr, newMux(sshHost, opts, logger)); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

func newMux(sshHost string, opts loop.Options, logger *log.Logger) *http.ServeMux {
	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", sshHost)
	presetList := strings.Join(opts.Library.Names(), ", ")
	page = strings.ReplaceAll(page, "{{.Presets}}", presetList)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	mux.Handle("/frame.png", frameHandler(opts, logger))
	return mux
}

// frameRequest is a parsed /frame.png query.
type frameRequest struct {
	preset        string
	ticks         int
	width, height int
	seed          int64
}

func parseFrameRequest(r *http.Request, defaultPreset string) (frameRequest, error) {
	q := r.URL.Query()
	req := frameRequest{
		preset: defaultPreset,
		ticks:  defaultTicks,
		width:  defaultFrameWidth,
		height: defaultFrameHeight,
		seed:   time.Now().UnixNano(),
	}
	if p := q.Get("preset"); p != "" {
		req.preset = p
	}

	ints := []struct {
		key      string
		dst      *int
		min, max int
	}{
		{"ticks", &req.ticks, 0, maxTicks},
		{"w", &req.width, 1, maxFrameWidth},
		{"h", &req.height, 1, maxFrameHeight},
	}
	for _, p := range ints {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < p.min || n > p.max {
			return frameRequest{}, fmt.Errorf("%s must be an integer in [%d, %d]", p.key, p.min, p.max)
		}
		*p.dst = n
	}
	if v := q.Get("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return frameRequest{}, fmt.Errorf("seed must be an integer")
		}
		req.seed = n
	}
	return req, nil
}

// frameHandler simulates a field for the requested number of ticks and
// serves the final frame as a PNG.
func frameHandler(opts loop.Options, logger *log.Logger) http.HandlerFunc {
	gradient := opts.Gradient
	if len(gradient.Stops) == 0 {
		gradient = draw.DefaultGradient()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		req, err := parseFrameRequest(r, opts.Preset)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		cfg, ok := opts.Library.Get(req.preset)
		if !ok {
			http.Error(w, fmt.Sprintf("unknown preset %q", req.preset), http.StatusNotFound)
			return
		}

		surface := renderFrame(cfg, gradient, req)
		w.Header().Set("Content-Type", "image/png")
		if err := png.Encode(w, surface.Image()); err != nil {
			logger.Error("encode frame", "err", err)
		}
	}
}

func renderFrame(cfg field.Config, gradient draw.Gradient, req frameRequest) *draw.ImageSurface {
	logicalWidth := max(int(float64(req.width)/frameScale), 1)
	logicalHeight := max(int(float64(req.height)/frameScale), 1)

	now := time.Unix(0, 0)
	f := field.New(cfg, field.WithRand(rand.New(rand.NewSource(req.seed))))
	f.Resize(logicalWidth, logicalHeight, now)
	// Warm-up moves particles only; the graph is built once for the drawn frame.
	for i := 0; i < req.ticks; i++ {
		now = now.Add(frameTick)
		f.Tick(now)
	}
	f.ComputeConnections()
	f.FindTriangles()

	surface := draw.NewImageSurface(logicalWidth, logicalHeight, frameScale)
	surface.FillGradient(gradient)
	f.Render(surface, now)
	return surface
}
