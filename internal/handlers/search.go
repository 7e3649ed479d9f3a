package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/lssb2003/university-forum/internal/cache"
	"github.com/lssb2003/university-forum/internal/models"
	"github.com/lssb2003/university-forum/internal/posttree"
	"github.com/lssb2003/university-forum/internal/store"
)

const defaultSuggestionLimit = 10

type Search struct {
	searchStore *store.SearchStore
	suggestions *cache.SuggestionCache
}

func NewSearch(searchStore *store.SearchStore, suggestions *cache.SuggestionCache) *Search {
	return &Search{searchStore: searchStore, suggestions: suggestions}
}

type searchResponse struct {
	Categories []models.Category `json:"categories"`
	Threads    []models.Thread   `json:"threads"`
	Posts      []*posttree.Node  `json:"posts"`
}

// Index runs a full search across categories, threads and posts.
// Soft-deleted posts never match.
func (s *Search) Index(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusOK, searchResponse{
			Categories: []models.Category{},
			Threads:    []models.Thread{},
			Posts:      []*posttree.Node{},
		})
		return
	}

	categories, err := s.searchStore.Categories(query)
	if err != nil {
		writeError(w, err)
		return
	}
	threads, err := s.searchStore.Threads(query)
	if err != nil {
		writeError(w, err)
		return
	}
	posts, err := s.searchStore.Posts(query)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := searchResponse{Categories: categories, Threads: threads, Posts: []*posttree.Node{}}
	for i := range posts {
		resp.Posts = append(resp.Posts, postView(&posts[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Suggestions returns typeahead entries for the search box, cached in
// Valkey for a short window since the same prefixes repeat heavily.
func (s *Search) Suggestions(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusOK, []store.Suggestion{})
		return
	}

	limit := defaultSuggestionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 50 {
			limit = n
		}
	}

	// The cache key carries only the query, so bypass it for
	// non-default limits.
	useCache := limit == defaultSuggestionLimit
	if useCache {
		if cached, err := s.suggestions.Get(r.Context(), query); err != nil {
			slog.Error("suggestion cache read failed", "error", err)
		} else if cached != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
	}

	results, err := s.searchStore.Suggestions(query, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	payload, err := json.Marshal(results)
	if err != nil {
		writeError(w, err)
		return
	}
	if useCache {
		if err := s.suggestions.Set(r.Context(), query, payload); err != nil {
			slog.Error("suggestion cache write failed", "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}
