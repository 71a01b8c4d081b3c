package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jobjitsu/interview-api/internal/adapters/auth"
	httpadapter "github.com/jobjitsu/interview-api/internal/adapters/http"
	"github.com/jobjitsu/interview-api/internal/adapters/llm"
	firestorestore "github.com/jobjitsu/interview-api/internal/adapters/storage/firestore"
	memstore "github.com/jobjitsu/interview-api/internal/adapters/storage/memory"
	"github.com/jobjitsu/interview-api/internal/adapters/tts"
	"github.com/jobjitsu/interview-api/internal/app/interview"
	"github.com/jobjitsu/interview-api/internal/app/recovery"
	"github.com/jobjitsu/interview-api/internal/config"
	"github.com/jobjitsu/interview-api/internal/domain"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("could not load .env: %v", err)
	}

	cfg := config.Load()

	// Generation: mock or Gemini by config (useful for dev)
	var (
		generator domain.TextGenerator
		err       error
	)
	if cfg.UseMockLLM {
		log.Println("[LLM] Using mock text generator")
		generator = llm.NewMockGenerator()
	} else {
		log.Println("[LLM] Using Gemini text generator")
		generator, err = llm.NewGeminiClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName)
		if err != nil {
			log.Fatalf("error initializing Gemini client: %v", err)
		}
	}

	// Speech synthesis: mock or ElevenLabs
	var synthesizer domain.SpeechSynthesizer
	if cfg.UseMockTTS {
		log.Println("[TTS] Using mock synthesizer")
		synthesizer = tts.NewMockSynthesizer()
	} else {
		log.Println("[TTS] Using ElevenLabs synthesizer")
		synthesizer, err = tts.NewElevenLabsClient(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoice, cfg.SynthesisTimeout)
		if err != nil {
			log.Fatalf("error initializing ElevenLabs client: %v", err)
		}
	}

	// Storage: Firestore or Memory
	var sessionStore domain.SessionStore
	var closeStore func() error

	switch cfg.StorageBackend {
	case "firestore":
		if cfg.GCPProjectID == "" {
			log.Fatal("JOBJITSU_GCP_PROJECT is required for the Firestore storage backend")
		}

		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}
		sessionStore = fsStore
		closeStore = fsStore.Close

	default:
		log.Println("[STORE] Using in-memory storage")
		sessionStore = memstore.NewSessionStore()
	}

	// Identity: static tokens for dev, HTTP userinfo otherwise
	var verifier domain.TokenVerifier
	switch cfg.AuthBackend {
	case "http":
		log.Printf("[AUTH] Using HTTP token verifier (%s)", cfg.AuthURL)
		verifier, err = auth.NewHTTPVerifier(cfg.AuthURL, 10*time.Second)
		if err != nil {
			log.Fatalf("error initializing token verifier: %v", err)
		}
	default:
		log.Println("[AUTH] Using static token verifier")
		verifier = auth.NewStaticVerifier(map[string]domain.UserID{
			cfg.StaticToken: domain.UserID(cfg.StaticUser),
		})
	}

	templates, err := config.LoadQuestionTemplates(cfg.TemplatesFile)
	if err != nil {
		log.Printf("question templates: %v (using defaults)", err)
	}

	svc := interview.NewService(
		generator,
		synthesizer,
		sessionStore,
		recovery.NewQuestionSetBuilder(templates),
		cfg.GenerationTimeout,
		cfg.SynthesisTimeout,
	)

	handler := httpadapter.NewServer(svc, verifier, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		log.Println("JobJitsu interview API listening on port:", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if closeStore != nil {
		if err := closeStore(); err != nil {
			log.Printf("store close: %v", err)
		}
	}
}
