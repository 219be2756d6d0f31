// Package rag wires the query flow: preprocess the question, search child
// chunks, resolve them to parent passages, and generate a cited answer.
package rag

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"

	"doctrine-rag/internal/config"
	"doctrine-rag/internal/llmservice"
	"doctrine-rag/internal/models"
	"doctrine-rag/internal/retriever"
)

type RAG struct {
	index retriever.VectorIndex
	store retriever.ParentGetter
	cfg   *config.Config
}

func New(index retriever.VectorIndex, store retriever.ParentGetter, cfg *config.Config) *RAG {
	return &RAG{index: index, store: store, cfg: cfg}
}

// Response is a generated answer plus the passages that grounded it.
type Response struct {
	Content  string
	Context  string
	Passages []models.Passage
}

// Query answers a question against the indexed corpus. With nothing
// retrieved the model is still asked, with an empty excerpt section, and
// instructed to say the excerpts do not cover the question.
func (r *RAG) Query(ctx context.Context, question string) (*Response, error) {
	enhanced, keyTerms := retriever.PreprocessQuery(question)
	log.Debug().Str("query", enhanced).Strs("key_terms", keyTerms).Msg("Preprocessed query")

	children, err := retriever.Search(ctx, r.index, enhanced, r.cfg.RAG.TopK, r.cfg.RAG.MinRelevanceScore)
	if err != nil {
		return nil, err
	}

	passages, err := retriever.ResolveParents(ctx, children, r.store)
	if err != nil {
		return nil, err
	}
	contextText := retriever.FormatContext(passages)

	prompt := fmt.Sprintf(models.AnswerPromptTemplate, contextText, question)
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}
	res, err := llmservice.GenerateContent(ctx, &r.cfg.ChatLLM, nil, messages)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}
	if len(res.Choices) == 0 {
		return nil, fmt.Errorf("chat model returned no choices")
	}

	return &Response{
		Content:  res.Choices[0].Content,
		Context:  contextText,
		Passages: passages,
	}, nil
}
