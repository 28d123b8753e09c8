package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/okrent/cardscan/internal/contact"
	"github.com/okrent/cardscan/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("cardscan")
	var (
		port          = fs.IntLong("port", 8080, "HTTP server port")
		dbPath        = fs.StringLong("db", "cardscan.db", "Database file path")
		storagePath   = fs.StringLong("storage", "./cards", "Card image storage directory")
		engineType    = fs.StringLong("engine", "vision", "Remote OCR engine: 'vision' or 'gemini'")
		visionKey     = fs.StringLong("vision-key", "", "Google Cloud Vision API key (or set VISION_API_KEY env var)")
		geminiKey     = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel   = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		tessLang      = fs.StringLong("tess-lang", "eng", "Tesseract language for the local fallback engine")
		remoteTimeout = fs.DurationLong("remote-timeout", 20*time.Second, "Time to wait for the remote engine before falling back")
		authUser      = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass      = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion   = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("CARDSCAN"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Initialize database
	slog.Info("Initializing database...")
	db, err := contact.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize the remote OCR engine based on type
	var remote scanning.Engine
	switch *engineType {
	case "vision":
		apiKey := *visionKey
		if apiKey == "" {
			apiKey = os.Getenv("VISION_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Vision API key is required. Set --vision-key flag or VISION_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Vision engine...")
		remote, err = scanning.NewVision(apiKey)
		if err != nil {
			slog.Error("Failed to initialize Vision", "error", err)
			os.Exit(1)
		}
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini engine...", "model", *geminiModel)
		remote, err = scanning.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid engine type", "type", *engineType, "valid", "vision or gemini")
		os.Exit(1)
	}

	// The local fallback engine keeps scans working when the remote
	// engine is down or the network is out
	slog.Info("Initializing Tesseract fallback...", "language", *tessLang)
	local := scanning.NewTesseract(*tessLang)

	recognizer := scanning.NewRecognizerWithTimeout(remote, local, *remoteTimeout)
	defer recognizer.Close()

	// Initialize storage
	slog.Info("Initializing storage...")
	store, err := contact.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	// Initialize service
	contactService := contact.NewService(db, recognizer, store)

	// Initialize server
	basicAuth := contact.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := contact.NewServer(contactService, basicAuth)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
