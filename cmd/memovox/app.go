package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/memovox/memovox/internal/config"
	"github.com/memovox/memovox/internal/db"
	dbRedis "github.com/memovox/memovox/internal/db/redis"
	"github.com/memovox/memovox/internal/logger"
	"github.com/memovox/memovox/internal/metrics"
	"github.com/memovox/memovox/internal/nlp"
	transcriptrepo "github.com/memovox/memovox/internal/repository/transcript"
	vectorrepo "github.com/memovox/memovox/internal/repository/vector"
	openaiTransport "github.com/memovox/memovox/internal/transport/openai"
	answeruc "github.com/memovox/memovox/internal/usecase/answer"
	countuc "github.com/memovox/memovox/internal/usecase/count"
	ingestuc "github.com/memovox/memovox/internal/usecase/ingest"
	parseuc "github.com/memovox/memovox/internal/usecase/parse"
	retrieveuc "github.com/memovox/memovox/internal/usecase/retrieve"
)

// app is the composition root: every handle is created once at startup
// and shared read-only afterwards.
type app struct {
	cfg    config.Config
	logger *zap.Logger

	store       db.Store
	transcripts *transcriptrepo.Repository
	vectors     *vectorrepo.Repository

	parse    *parseuc.Service
	retrieve *retrieveuc.Service
	count    *countuc.Service
	ingest   *ingestuc.Service
	answer   *answeruc.Service
	speech   *openaiTransport.Speech
}

// newApp wires the application from config.
func newApp(ctx context.Context, env string) (*app, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Vector.Addrs,
		Password: cfg.Vector.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create vector store: %w", err)
	}

	readiness := time.Duration(cfg.Vector.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		store.Close()
		return nil, fmt.Errorf("vector store not ready: %w", err)
	}

	transcripts, err := transcriptrepo.Open(cfg.Database.Path)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("open transcript store: %w", err)
	}
	if err := transcripts.Init(ctx); err != nil {
		store.Close()
		transcripts.Close()
		return nil, fmt.Errorf("init transcript schema: %w", err)
	}

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterQueryMetrics()

	client := openaiTransport.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)
	embedder := openaiTransport.NewEmbedder(client, cfg.OpenAI.EmbeddingModel, cfg.Vector.Dimensions)
	parser := openaiTransport.NewParser(client, cfg.OpenAI.ChatModel)
	transcriber := openaiTransport.NewTranscriber(client, cfg.OpenAI.TranscriptionModel)
	chat := openaiTransport.NewChat(client, cfg.OpenAI.ChatModel, cfg.OpenAI.Temperature)
	speech := openaiTransport.NewSpeech(client, cfg.OpenAI.SpeechModel, cfg.OpenAI.SpeechVoice)

	vectors := vectorrepo.New(store, vectorrepo.Config{
		KeyPrefix:       cfg.Vector.KeyPrefix,
		HNSWM:           cfg.Vector.HNSWM,
		HNSWEFConstruct: cfg.Vector.HNSWEFConstruct,
	})

	tagger := nlp.NewTagger()

	return &app{
		cfg:         cfg,
		logger:      log,
		store:       store,
		transcripts: transcripts,
		vectors:     vectors,
		parse:       parseuc.New(parser, tagger),
		retrieve:    retrieveuc.New(transcripts, vectors, embedder),
		count:       countuc.New(transcripts),
		ingest: ingestuc.New(
			transcriber, tagger, transcripts, vectors, embedder,
			cfg.Ingest.TranscriptDir, cfg.Ingest.Workers,
		),
		answer: answeruc.New(chat),
		speech: speech,
	}, nil
}

func (a *app) close() {
	a.store.Close()
	if err := a.transcripts.Close(); err != nil {
		a.logger.Warn("close transcript store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// ctx returns a context carrying the application logger.
func (a *app) ctx(parent context.Context) context.Context {
	return logger.ContextWithLogger(parent, a.logger)
}
