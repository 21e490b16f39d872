package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/wiktapi/internal/domain"
	"github.com/heartmarshall/wiktapi/internal/service/dictionary"
)

// dictionaryService defines the minimal interface needed by DictionaryHandler.
type dictionaryService interface {
	Lookup(ctx context.Context, input dictionary.LookupInput) (*domain.WordRecord, error)
	Search(ctx context.Context, input dictionary.SearchInput) ([]domain.WordSummary, error)
	List(ctx context.Context, input dictionary.ListInput) (*domain.WordPage, error)
	Categories(ctx context.Context) ([]string, error)
	Languages(ctx context.Context) ([]string, error)
}

// DictionaryHandler serves the read-only dictionary endpoints.
type DictionaryHandler struct {
	svc dictionaryService
	log *slog.Logger
}

// NewDictionaryHandler creates a DictionaryHandler.
func NewDictionaryHandler(svc dictionaryService, logger *slog.Logger) *DictionaryHandler {
	return &DictionaryHandler{svc: svc, log: logger.With("handler", "dictionary")}
}

// Register mounts the /v1 routes on mux.
func (h *DictionaryHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/word/{word}", h.Word)
	mux.HandleFunc("GET /v1/word/{word}/definitions", h.Definitions)
	mux.HandleFunc("GET /v1/word/{word}/translations", h.Translations)
	mux.HandleFunc("GET /v1/word/{word}/pronunciations", h.Pronunciations)
	mux.HandleFunc("GET /v1/word/{word}/tenses", h.Tenses)
	mux.HandleFunc("GET /v1/word/{word}/synonyms-antonyms", h.SynonymsAntonyms)
	mux.HandleFunc("GET /v1/search", h.Search)
	mux.HandleFunc("GET /v1/words", h.Words)
	mux.HandleFunc("GET /v1/categories", h.Categories)
	mux.HandleFunc("GET /v1/languages", h.Languages)
}

type wordResponse struct {
	Word         string                   `json:"word"`
	Edition      string                   `json:"edition"`
	Phonetic     *string                  `json:"phonetic"`
	Phonetics    []domain.PhoneticItem    `json:"phonetics"`
	Meanings     []domain.Meaning         `json:"meanings"`
	Category     domain.Category          `json:"category"`
	Translations []domain.TranslationItem `json:"translations"`
	Tenses       *domain.Tenses           `json:"tenses"`
}

type definitionsResponse struct {
	Word     string           `json:"word"`
	Edition  string           `json:"edition"`
	Meanings []domain.Meaning `json:"meanings"`
}

type translationsResponse struct {
	Word         string                   `json:"word"`
	Edition      string                   `json:"edition"`
	Translations []domain.TranslationItem `json:"translations"`
}

type pronunciationsResponse struct {
	Word      string                `json:"word"`
	Phonetic  *string               `json:"phonetic"`
	Phonetics []domain.PhoneticItem `json:"phonetics"`
}

type tensesResponse struct {
	Word   string         `json:"word"`
	Tenses *domain.Tenses `json:"tenses"`
}

type synonymsAntonymsResponse struct {
	Word     string   `json:"word"`
	Edition  string   `json:"edition"`
	Synonyms []string `json:"synonyms"`
	Antonyms []string `json:"antonyms"`
}

// Word handles GET /v1/word/{word}.
func (h *DictionaryHandler) Word(w http.ResponseWriter, r *http.Request) {
	h.withRecord(w, r, func(rec *domain.WordRecord) any {
		return wordResponse{
			Word:         rec.Word,
			Edition:      rec.Edition,
			Phonetic:     rec.Phonetic,
			Phonetics:    rec.Phonetics,
			Meanings:     rec.Meanings,
			Category:     rec.Category,
			Translations: rec.Translations,
			Tenses:       rec.Tenses,
		}
	})
}

// Definitions handles GET /v1/word/{word}/definitions.
func (h *DictionaryHandler) Definitions(w http.ResponseWriter, r *http.Request) {
	h.withRecord(w, r, func(rec *domain.WordRecord) any {
		return definitionsResponse{Word: rec.Word, Edition: rec.Edition, Meanings: rec.Meanings}
	})
}

// Translations handles GET /v1/word/{word}/translations.
func (h *DictionaryHandler) Translations(w http.ResponseWriter, r *http.Request) {
	h.withRecord(w, r, func(rec *domain.WordRecord) any {
		return translationsResponse{Word: rec.Word, Edition: rec.Edition, Translations: rec.Translations}
	})
}

// Pronunciations handles GET /v1/word/{word}/pronunciations.
func (h *DictionaryHandler) Pronunciations(w http.ResponseWriter, r *http.Request) {
	h.withRecord(w, r, func(rec *domain.WordRecord) any {
		return pronunciationsResponse{Word: rec.Word, Phonetic: rec.Phonetic, Phonetics: rec.Phonetics}
	})
}

// Tenses handles GET /v1/word/{word}/tenses. Tenses is null when unknown.
func (h *DictionaryHandler) Tenses(w http.ResponseWriter, r *http.Request) {
	h.withRecord(w, r, func(rec *domain.WordRecord) any {
		return tensesResponse{Word: rec.Word, Tenses: rec.Tenses}
	})
}

// SynonymsAntonyms handles GET /v1/word/{word}/synonyms-antonyms.
func (h *DictionaryHandler) SynonymsAntonyms(w http.ResponseWriter, r *http.Request) {
	h.withRecord(w, r, func(rec *domain.WordRecord) any {
		return synonymsAntonymsResponse{
			Word:     rec.Word,
			Edition:  rec.Edition,
			Synonyms: rec.Synonyms(),
			Antonyms: rec.Antonyms(),
		}
	})
}

// withRecord looks up the {word} path value and renders the projection.
func (h *DictionaryHandler) withRecord(w http.ResponseWriter, r *http.Request, project func(*domain.WordRecord) any) {
	q := r.URL.Query()
	input := dictionary.LookupInput{
		Word:     r.PathValue("word"),
		Category: q.Get("category"),
		Edition:  q.Get("edition"),
	}

	rec, err := h.svc.Lookup(r.Context(), input)
	if err != nil {
		h.handleError(w, r, err, fmt.Sprintf("no entry found for %q", input.Word))
		return
	}
	writeJSON(w, http.StatusOK, project(rec))
}

// Search handles GET /v1/search?q=&category=.
func (h *DictionaryHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	results, err := h.svc.Search(r.Context(), dictionary.SearchInput{
		Query:    q.Get("q"),
		Category: q.Get("category"),
	})
	if err != nil {
		h.handleError(w, r, err, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// Words handles GET /v1/words?page=&limit=&category=&edition=.
func (h *DictionaryHandler) Words(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.svc.List(r.Context(), dictionary.ListInput{
		Page:     queryInt(q.Get("page"), 1),
		Limit:    queryInt(q.Get("limit"), dictionary.DefaultPageLimit),
		Category: q.Get("category"),
		Edition:  q.Get("edition"),
	})
	if err != nil {
		h.handleError(w, r, err, "not found")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Categories handles GET /v1/categories.
func (h *DictionaryHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories(r.Context())
	if err != nil {
		h.handleError(w, r, err, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
}

// Languages handles GET /v1/languages.
func (h *DictionaryHandler) Languages(w http.ResponseWriter, r *http.Request) {
	langs, err := h.svc.Languages(r.Context())
	if err != nil {
		h.handleError(w, r, err, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"languages": langs})
}

func (h *DictionaryHandler) handleError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to send.
		h.log.DebugContext(r.Context(), "request canceled", slog.String("path", r.URL.Path))
	default:
		h.log.ErrorContext(r.Context(), "internal error",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// queryInt parses a non-empty integer query value, falling back to def when
// the value is missing or not a number. Range clamping is the service's job.
func queryInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
