package model

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrEmptyNiche rejects blank prompts before any network call is made
	ErrEmptyNiche = goerr.New("niche is empty")

	// ErrNoCandidates means the generative API returned a response with
	// no usable text
	ErrNoCandidates = goerr.New("no candidates in response")
)
