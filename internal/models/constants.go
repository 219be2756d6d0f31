package models

const (
	ChunkTypeParent = "parent"
	ChunkTypeChild  = "child"
)

var AnswerPromptTemplate = `You are a military doctrine research assistant. Answer the question using only the doctrine excerpts below. Cite each excerpt you use by its bracketed source label, including the page when one is shown. If the excerpts do not cover the question, say so instead of guessing.

Doctrine excerpts:
%s

Question: %s
`
