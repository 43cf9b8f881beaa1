// Package advice asks a Gemini model for spending advice grounded on the
// user's expense history.
package advice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"spendwise/internal/core"

	"google.golang.org/genai"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-2.5-flash"

	// Unreachable is returned whenever the model cannot be reached.
	Unreachable = "Sorry, I'm having trouble connecting to the financial brain right now. Please try again later."

	// NoAnswer is returned when the model replies with no text.
	NoAnswer = "I couldn't generate a response at this time."
)

const systemInstruction = "You are a helpful financial assistant for a mobile expense tracker. " +
	"Keep responses concise and easy to read on a phone screen."

// Advisor answers a free-text question about a set of expenses. It never
// fails: errors are reported as a user-facing message.
type Advisor interface {
	Advice(ctx context.Context, question string, expenses []core.Expense, base core.Currency) string
}

// Generator is the subset of the genai models service used here.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini is an Advisor backed by a genai Generator.
type Gemini struct {
	gen    Generator
	model  string
	logger *slog.Logger
}

// NewGemini builds an advisor from an explicit generator. An empty model
// selects DefaultModel.
func NewGemini(gen Generator, model string, logger *slog.Logger) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gemini{gen: gen, model: model, logger: logger.With("component", "advice")}
}

// NewClient connects to the Gemini API with the given key.
func NewClient(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return NewGemini(client.Models, model, logger), nil
}

// Model returns the model name requests are sent to.
func (g *Gemini) Model() string { return g.model }

func (g *Gemini) Advice(ctx context.Context, question string, expenses []core.Expense, base core.Currency) string {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}

	resp, err := g.gen.GenerateContent(ctx, g.model, genai.Text(Prompt(question, expenses, base)), config)
	if err != nil {
		g.logger.ErrorContext(ctx, "Advice request failed", "model", g.model, "error", err)
		return Unreachable
	}
	if resp == nil {
		return NoAnswer
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		g.logger.WarnContext(ctx, "Advice response had no text", "model", g.model)
		return NoAnswer
	}
	g.logger.DebugContext(ctx, "Advice received", "model", g.model, "chars", len(text))
	return text
}

// Prompt renders the question together with the transaction history.
func Prompt(question string, expenses []core.Expense, base core.Currency) string {
	var b strings.Builder
	b.WriteString("You are a smart personal finance assistant.\n")
	fmt.Fprintf(&b, "The user's base currency is %s.\n\n", base)
	b.WriteString("Here is the user's recent transaction history:\n")
	for _, line := range HistoryLines(expenses) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\nUser Question: %q\n\n", question)
	b.WriteString("Provide a helpful, concise, and friendly answer.\n")
	b.WriteString("If the user asks for totals, calculate them accurately based on the provided list.\n")
	b.WriteString("If the user asks for advice, provide actionable tips based on their spending habits visible in the list.\n")
	b.WriteString("Format the response with clear paragraphs or bullet points.\n")
	return b.String()
}

// HistoryLines formats one prompt line per expense.
func HistoryLines(expenses []core.Expense) []string {
	lines := make([]string, len(expenses))
	for i, e := range expenses {
		lines[i] = fmt.Sprintf("- %s: %s (%s %s) [%s]", e.Date, e.Description, e.Amount.String(), e.Currency, e.Category)
	}
	return lines
}

// Unavailable answers every question with Unreachable. It stands in when no
// API key is configured.
type Unavailable struct{}

func (Unavailable) Advice(context.Context, string, []core.Expense, core.Currency) string {
	return Unreachable
}
