package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	VectorDB VectorDBConfig `yaml:"vector_db"`
	EmbedLLM LLMConfig      `yaml:"embed_llm"`
	ChatLLM  LLMConfig      `yaml:"chat_llm"`
	RAG      RAGConfig      `yaml:"rag"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

type VectorDBConfig struct {
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	InMemory   bool   `yaml:"in_memory"`
}

type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	Key     string `yaml:"key"`
	Model   string `yaml:"model"`
}

type RAGConfig struct {
	ParentChunkSize      int     `yaml:"parent_chunk_size"`
	ParentChunkOverlap   int     `yaml:"parent_chunk_overlap"`
	ChildChunkSize       int     `yaml:"child_chunk_size"`
	ChildChunkOverlap    int     `yaml:"child_chunk_overlap"`
	MinChunkChars        int     `yaml:"min_chunk_chars"`
	MinDocumentChars     int     `yaml:"min_document_chars"`
	MinRelevanceScore    float32 `yaml:"min_relevance_score"`
	TopK                 int     `yaml:"top_k"`
	EmbedCacheTTLMinutes int     `yaml:"embed_cache_ttl_minutes"`
}

const (
	defaultParentChunkSize    = 1200
	defaultParentChunkOverlap = 100
	defaultChildChunkSize     = 300
	defaultChildChunkOverlap  = 50
	defaultMinChunkChars      = 75
	defaultMinDocumentChars   = 50
	defaultMinRelevanceScore  = 0.5
	defaultTopK               = 5
	defaultEmbedCacheTTLMin   = 15
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a config carrying only the built-in defaults, for callers
// without a config file (tests, mostly).
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	r := &c.RAG
	if r.ParentChunkSize == 0 {
		r.ParentChunkSize = defaultParentChunkSize
	}
	if r.ParentChunkOverlap == 0 {
		r.ParentChunkOverlap = defaultParentChunkOverlap
	}
	if r.ChildChunkSize == 0 {
		r.ChildChunkSize = defaultChildChunkSize
	}
	if r.ChildChunkOverlap == 0 {
		r.ChildChunkOverlap = defaultChildChunkOverlap
	}
	if r.MinChunkChars == 0 {
		r.MinChunkChars = defaultMinChunkChars
	}
	if r.MinDocumentChars == 0 {
		r.MinDocumentChars = defaultMinDocumentChars
	}
	if r.MinRelevanceScore == 0 {
		r.MinRelevanceScore = defaultMinRelevanceScore
	}
	if r.TopK == 0 {
		r.TopK = defaultTopK
	}
	if r.EmbedCacheTTLMinutes == 0 {
		r.EmbedCacheTTLMinutes = defaultEmbedCacheTTLMin
	}
	if c.VectorDB.Collection == "" {
		c.VectorDB.Collection = "doctrine"
	}
	if c.VectorDB.Path == "" {
		c.VectorDB.Path = "./chromemdb"
	}
}
