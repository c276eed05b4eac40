// /home/krylon/go/src/github.com/blicero/gazetteer/translate/translate.go
// -*- mode: go; coding: utf-8; -*-
// Created on 11. 02. 2025 by Benjamin Walkenhorst
// (c) 2025 Benjamin Walkenhorst
// Time-stamp: <2025-02-16 19:02:37 krylon>

// Package translate translates gazetteers into other languages, one entry
// at a time, by asking a large language model.
package translate

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/blicero/gazetteer/common"
	"github.com/blicero/gazetteer/corpus"
	"github.com/blicero/gazetteer/logdomain"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// EnvAPIKey is the environment variable the API key is read from.
const EnvAPIKey = "OPENAI_API_KEY"

// ErrNoAPIKey indicates that no API key was given.
var ErrNoAPIKey = errors.New("no OpenAI API key, set " + EnvAPIKey)

// ErrEmptyResponse indicates that the model did not return a translation.
var ErrEmptyResponse = errors.New("empty response")

// Translator translates entities.
type Translator interface {
	Translate(ctx context.Context, entity, from, to string) (string, error)
}

const promptTmpl = `
        Your task is to translate this entity: '%s'
        from languague '%s' to language '%s'
        The result need to be stricly lower case and have no extra spaces.
        Just generate the result, no need explanation.
    `

// Prompt returns the prompt that asks for the translation of an entity.
func Prompt(entity, from, to string) string {
	return fmt.Sprintf(promptTmpl, entity, from, to)
} // func Prompt(entity, from, to string) string

// OpenAI translates through the OpenAI chat completion API.
type OpenAI struct {
	Model  string
	log    *log.Logger
	client openai.Client
}

// NewOpenAI creates a Translator that uses the OpenAI API. If apiKey is
// empty, it is taken from the environment.
func NewOpenAI(apiKey string, opts ...option.RequestOption) (*OpenAI, error) {
	var (
		err error
		t   = &OpenAI{Model: openai.ChatModelGPT3_5Turbo}
	)

	if t.log, err = common.GetLogger(logdomain.Translate); err != nil {
		return nil, err
	}

	if apiKey == "" {
		apiKey = os.Getenv(EnvAPIKey)
	}

	if apiKey == "" {
		t.log.Printf("[ERROR] %s\n", ErrNoAPIKey.Error())
		return nil, ErrNoAPIKey
	}

	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	t.client = openai.NewClient(opts...)

	return t, nil
} // func NewOpenAI(apiKey string, opts ...option.RequestOption) (*OpenAI, error)

// Translate asks the model to translate an entity.
func (t *OpenAI) Translate(ctx context.Context, entity, from, to string) (string, error) {
	var (
		err  error
		chat *openai.ChatCompletion
	)

	if chat, err = t.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(Prompt(entity, from, to)),
		},
		Model:       t.Model,
		Temperature: openai.Float(0),
	}); err != nil {
		t.log.Printf("[ERROR] Cannot translate %q from %s to %s: %s\n",
			entity,
			from,
			to,
			err.Error())
		return "", err
	} else if len(chat.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return corpus.Clean(chat.Choices[0].Message.Content), nil
} // func (t *OpenAI) Translate(ctx context.Context, entity, from, to string) (string, error)

// TranslateFile translates a gazetteer file line by line and returns the
// number of lines translated. Empty lines are copied unchanged.
func TranslateFile(ctx context.Context, tr Translator, r io.Reader, w io.Writer, from, to string) (int, error) {
	var (
		cnt     int
		scanner = bufio.NewScanner(r)
		bw      = bufio.NewWriter(w)
	)

	for scanner.Scan() {
		var (
			err   error
			trans string
			line  = strings.TrimSpace(scanner.Text())
		)

		if line != "" {
			if trans, err = tr.Translate(ctx, line, from, to); err != nil {
				bw.Flush() // nolint: errcheck
				return cnt, fmt.Errorf("Cannot translate %q: %w", line, err)
			}
			cnt++
		}

		if _, err = bw.WriteString(trans + "\n"); err != nil {
			return cnt, err
		}
	}

	if err := scanner.Err(); err != nil {
		return cnt, err
	}

	return cnt, bw.Flush()
} // func TranslateFile(ctx context.Context, tr Translator, r io.Reader, w io.Writer, from, to string) (int, error)
