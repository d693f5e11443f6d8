package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scriptcast/scriptcast/internal/audio"
	"github.com/scriptcast/scriptcast/internal/config"
	"github.com/scriptcast/scriptcast/internal/credstore"
	"github.com/scriptcast/scriptcast/internal/elevenlabs"
	"github.com/scriptcast/scriptcast/internal/observability"
	"github.com/scriptcast/scriptcast/internal/script"
	"github.com/scriptcast/scriptcast/internal/session"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: scriptcast <command> [flags]

Commands:
  voices   List the voices available to your credential
  say      Synthesize one text with a single voice
  script   Synthesize a multi-speaker script and merge it into one WAV
  auth     Store, show or remove the provider credential
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		// Use fmt for fatal errors before the logger is initialized
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	logger := observability.GetLogger()

	store, err := openCredentialStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open credential store")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := elevenlabs.NewClient(cfg.ElevenLabsURL, time.Duration(cfg.RequestTimeout)*time.Second)

	var runErr error
	switch os.Args[1] {
	case "voices":
		runErr = runVoices(ctx, cfg, client, store, os.Args[2:])
	case "say":
		runErr = runSay(ctx, cfg, client, store, os.Args[2:])
	case "script":
		runErr = runScript(ctx, cfg, client, store, os.Args[2:])
	case "auth":
		runErr = runAuth(store, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if runErr != nil {
		logger.Error().Err(runErr).Msg("Command failed")
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), userMessage(runErr))
		os.Exit(1)
	}
}

func openCredentialStore(cfg *config.Config) (*credstore.Store, error) {
	path := cfg.CredentialFile
	if path == "" {
		var err error
		path, err = credstore.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return credstore.New(path), nil
}

// resolveAPIKey prefers the environment over the stored credential; the key
// is always handed to the client explicitly, never kept as hidden state.
func resolveAPIKey(cfg *config.Config, store *credstore.Store) (string, error) {
	if cfg.ElevenLabsAPIKey != "" {
		return cfg.ElevenLabsAPIKey, nil
	}

	key, err := store.Get(credstore.APIKeyName)
	if errors.Is(err, credstore.ErrNotFound) {
		return "", fmt.Errorf("no credential configured: set ELEVENLABS_API_KEY or run 'scriptcast auth -set <key>'")
	}
	return key, err
}

func runVoices(ctx context.Context, cfg *config.Config, client *elevenlabs.Client, store *credstore.Store, args []string) error {
	fs := flag.NewFlagSet("voices", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	apiKey, err := resolveAPIKey(cfg, store)
	if err != nil {
		return err
	}

	shutdown := startMetricsListener(cfg, client, apiKey)
	defer shutdown()

	voices, err := client.ListVoices(ctx, apiKey)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	bold.Printf("%-24s %-20s %-12s %s\n", "VOICE ID", "NAME", "CATEGORY", "LABELS")
	for _, v := range voices {
		fmt.Printf("%-24s %-20s %-12s %s\n", v.VoiceID, v.Name, v.Category, formatLabels(v.Labels))
		if v.Description != "" {
			dim.Printf("  %s\n", v.Description)
		}
	}

	return nil
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(labels))
	for _, key := range []string{"gender", "age", "accent"} {
		if value, ok := labels[key]; ok {
			parts = append(parts, key+"="+value)
		}
	}
	for key, value := range labels {
		if key != "gender" && key != "age" && key != "accent" {
			parts = append(parts, key+"="+value)
		}
	}
	return strings.Join(parts, " ")
}

func runSay(ctx context.Context, cfg *config.Config, client *elevenlabs.Client, store *credstore.Store, args []string) error {
	fs := flag.NewFlagSet("say", flag.ExitOnError)
	text := fs.String("text", "", "Text to synthesize")
	voiceID := fs.String("voice", cfg.DefaultVoiceID, "Voice ID")
	out := fs.String("out", "speech.mp3", "Output file (.mp3 as returned, .wav re-encoded)")
	stability := fs.Float64("stability", cfg.DefaultStability, "Voice stability [0,1]")
	speed := fs.Float64("speed", cfg.DefaultSpeed, "Speaking speed [0.5,2.0]")
	style := fs.Float64("style", cfg.DefaultStyle, "Style exaggeration [0,1]")
	boost := fs.Bool("speaker-boost", cfg.SpeakerBoost, "Enable speaker boost")
	stream := fs.Bool("stream", false, "Use the provider's streaming endpoint")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *text == "" {
		return fmt.Errorf("-text is required")
	}
	if *voiceID == "" {
		return fmt.Errorf("-voice is required (no DEFAULT_VOICE_ID configured)")
	}

	apiKey, err := resolveAPIKey(cfg, store)
	if err != nil {
		return err
	}

	shutdown := startMetricsListener(cfg, client, apiKey)
	defer shutdown()

	req := elevenlabs.SynthesizeRequest{
		Text:    *text,
		ModelID: cfg.ModelID,
		VoiceSettings: elevenlabs.VoiceSettings{
			Stability:       *stability,
			SimilarityBoost: 0.75,
			Style:           *style,
			UseSpeakerBoost: *boost,
			Speed:           *speed,
		},
	}

	var encoded []byte
	if *stream {
		encoded, err = client.SynthesizeStream(ctx, apiKey, *voiceID, req)
	} else {
		encoded, err = client.Synthesize(ctx, apiKey, *voiceID, req)
	}
	if err != nil {
		return err
	}

	data := encoded
	if strings.HasSuffix(strings.ToLower(*out), ".wav") {
		pcm, err := audio.DecodeMP3(encoded)
		if err != nil {
			return err
		}
		data, err = audio.EncodeWAV(pcm)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Printf("%s %s (%d bytes)\n", color.GreenString("wrote"), *out, len(data))
	return nil
}

func runScript(ctx context.Context, cfg *config.Config, client *elevenlabs.Client, store *credstore.Store, args []string) error {
	fs := flag.NewFlagSet("script", flag.ExitOnError)
	file := fs.String("file", "", "Script file, one 'speaker: text' entry per line")
	out := fs.String("out", "merged.wav", "Merged WAV output file")
	cast := fs.String("cast", "", "Speaker to voice assignments, e.g. 'Alice=id1,Bob=id2'")
	defaultVoice := fs.String("voice", cfg.DefaultVoiceID, "Fallback voice for unassigned speakers")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *file == "" {
		return fmt.Errorf("-file is required")
	}

	f, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	lines, err := script.Parse(f)
	f.Close()
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return fmt.Errorf("script %s has no lines", *file)
	}

	casting, err := parseCast(*cast)
	if err != nil {
		return err
	}

	for i := range lines {
		voiceID, ok := casting[lines[i].Speaker]
		if !ok {
			voiceID = *defaultVoice
		}
		if voiceID == "" {
			return fmt.Errorf("no voice for speaker %q: add it to -cast or set -voice", lines[i].Speaker)
		}
		lines[i].VoiceID = voiceID
		lines[i].Stability = cfg.DefaultStability
		lines[i].Speed = cfg.DefaultSpeed
		lines[i].Style = cfg.DefaultStyle
		lines[i].SpeakerBoost = cfg.SpeakerBoost
	}

	apiKey, err := resolveAPIKey(cfg, store)
	if err != nil {
		return err
	}

	shutdown := startMetricsListener(cfg, client, apiKey)
	defer shutdown()

	sess := session.New(client, cfg.ModelID, nil)
	sess.Apply(script.Replace{Lines: lines})

	results, err := sess.SynthesizeAll(ctx, apiKey)
	for _, r := range results {
		if r.Err == nil {
			fmt.Printf("%s %s\n", color.GreenString("✓"), r.Speaker)
		} else {
			fmt.Printf("%s %s: %v\n", color.RedString("✗"), r.Speaker, userMessage(r.Err))
		}
	}
	if err != nil {
		return err
	}

	merged, err := sess.Merge()
	if err != nil {
		return err
	}

	if err := os.WriteFile(*out, merged, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Printf("%s %s (%d lines, %d bytes)\n", color.GreenString("wrote"), *out, len(lines), len(merged))
	return nil
}

func runAuth(store *credstore.Store, args []string) error {
	fs := flag.NewFlagSet("auth", flag.ExitOnError)
	set := fs.String("set", "", "Store the provider API key")
	remove := fs.Bool("remove", false, "Remove the stored API key")
	show := fs.Bool("show", false, "Show whether a key is stored")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *set != "":
		if err := store.Set(credstore.APIKeyName, *set); err != nil {
			return err
		}
		fmt.Println("credential stored")
		return nil

	case *remove:
		if err := store.Remove(credstore.APIKeyName); err != nil {
			return err
		}
		fmt.Println("credential removed")
		return nil

	case *show:
		key, err := store.Get(credstore.APIKeyName)
		if errors.Is(err, credstore.ErrNotFound) {
			fmt.Println("no credential stored")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("credential stored (%s...)\n", mask(key))
		return nil

	default:
		return fmt.Errorf("auth needs one of -set, -remove or -show")
	}
}

func mask(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4]
}

func parseCast(s string) (map[string]string, error) {
	casting := map[string]string{}
	if s == "" {
		return casting, nil
	}

	for _, pair := range strings.Split(s, ",") {
		speaker, voiceID, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found || speaker == "" || voiceID == "" {
			return nil, fmt.Errorf("bad -cast entry %q, expected speaker=voiceid", pair)
		}
		casting[speaker] = voiceID
	}
	return casting, nil
}

// startMetricsListener serves /metrics, /health and /ready while a command
// runs, when enabled. Returns a shutdown func safe to call unconditionally.
func startMetricsListener(cfg *config.Config, client *elevenlabs.Client, apiKey string) func() {
	if !cfg.MetricsEnabled {
		return func() {}
	}

	logger := observability.GetLogger()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", observability.HealthCheckHandler())
	mux.HandleFunc("/ready", observability.ReadinessHandler(map[string]observability.HealthCheckFunc{
		"elevenlabs": func(ctx context.Context) (bool, error) {
			return client.HealthCheck(ctx, apiKey)
		},
	}))

	server := &http.Server{
		Addr:         ":" + cfg.MetricsPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.MetricsPort).Msg("Metrics listener started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("Metrics listener failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}
}

// userMessage maps the error taxonomy to a targeted one-line message
func userMessage(err error) string {
	var authErr *elevenlabs.AuthError
	var netErr *elevenlabs.NetworkError
	var synthErr *elevenlabs.SynthesisError
	var incomplete *session.IncompleteScriptError
	var lineErr *session.LineError

	switch {
	case errors.As(err, &incomplete):
		if len(incomplete.Missing) == 0 {
			return "the script is empty, nothing to merge"
		}
		return fmt.Sprintf("generate audio for %s before merging", strings.Join(incomplete.Missing, ", "))
	case errors.As(err, &lineErr):
		return err.Error()
	case errors.As(err, &authErr):
		return "the provider rejected your credential, check your API key"
	case errors.As(err, &netErr):
		return "could not reach the provider, check your connection"
	case errors.As(err, &synthErr):
		return fmt.Sprintf("the provider rejected the request: %s", synthErr.Message)
	default:
		return err.Error()
	}
}
