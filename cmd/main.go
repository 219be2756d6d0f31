package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"doctrine-rag/internal/cache"
	"doctrine-rag/internal/config"
	"doctrine-rag/internal/db"
	"doctrine-rag/internal/embedding"
	"doctrine-rag/internal/extract"
	"doctrine-rag/internal/helper"
	"doctrine-rag/internal/ingest"
	"doctrine-rag/internal/models"
	"doctrine-rag/internal/parentstore"
	"doctrine-rag/internal/rag"
	"doctrine-rag/internal/vectordb"
)

const defaultConfigPath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", defaultConfigPath, "Path to the config file")
	filePath := flag.String("file", "", "Path to a document to ingest")
	query := flag.String("query", "", "Question to answer from the indexed corpus")
	deleteAll := flag.Bool("delete-all", false, "Delete all indexed documents")
	isKB := flag.Bool("kb", false, "Mark the ingested document as knowledge-base content")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	ctx := context.Background()
	switch {
	case *deleteAll:
		runDeleteAll(ctx, cfg)
	case *filePath != "":
		runIngest(ctx, cfg, *filePath, *isKB)
	case *query != "":
		runQuery(ctx, cfg, *query)
	default:
		log.Fatal().Msg("Provide -file to ingest a document, -query to ask a question, or -delete-all")
	}
}

// openStores wires the parent store and the vector index from config.
func openStores(ctx context.Context, cfg *config.Config) (*parentstore.Store, *vectordb.Store, func()) {
	sqldb, err := db.Connect(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	bdb := db.New(sqldb, cfg.Database.Debug)

	store := parentstore.New(bdb)
	if err := store.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error initializing parent store")
	}

	embedder, err := embedding.NewOllamaEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	embedCache := cache.New[string, []float32](time.Duration(cfg.RAG.EmbedCacheTTLMinutes) * time.Minute)

	if !cfg.VectorDB.InMemory {
		if err := helper.CreateFolder(cfg.VectorDB.Path); err != nil {
			log.Fatal().Err(err).Msg("Error creating vector db folder")
		}
	}
	index, err := vectordb.New(cfg.VectorDB.Path, cfg.VectorDB.Collection, cfg.VectorDB.InMemory, embedding.ChromemFunc(embedder, embedCache))
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening vector index")
	}

	return store, index, func() { bdb.Close() }
}

func runIngest(ctx context.Context, cfg *config.Config, filePath string, isKB bool) {
	store, index, closeStores := openStores(ctx, cfg)
	defer closeStores()

	extracted, err := extract.File(filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error extracting document text")
	}

	doc := models.Document{
		Filename:  filepath.Base(filePath),
		Content:   extracted.Text,
		Timestamp: time.Now(),
		IsKB:      isKB,
	}
	svc := ingest.New(store, index, cfg)
	result, err := svc.Ingest(ctx, doc, extracted.Breakpoints)
	if err != nil {
		log.Fatal().Err(err).Msg("Error ingesting document")
	}

	log.Info().Str("source", doc.Filename).Msg("Ingestion complete")
	helper.PrettyPrint(result)
}

func runQuery(ctx context.Context, cfg *config.Config, query string) {
	store, index, closeStores := openStores(ctx, cfg)
	defer closeStores()

	r := rag.New(index, store, cfg)
	response, err := r.Query(ctx, query)
	if err != nil {
		log.Fatal().Err(err).Msg("Error querying")
	}

	log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", query)

	log.Info().Msg("Sources: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", response.Context)

	log.Info().Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", response.Content)
}

func runDeleteAll(ctx context.Context, cfg *config.Config) {
	store, index, closeStores := openStores(ctx, cfg)
	defer closeStores()

	svc := ingest.New(store, index, cfg)
	if err := svc.DeleteAll(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error deleting documents")
	}
}
