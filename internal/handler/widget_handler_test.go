package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/nostalgic/widgets/internal/client"
	"github.com/nostalgic/widgets/internal/config"
	"github.com/nostalgic/widgets/internal/domain"
	"github.com/nostalgic/widgets/internal/middleware"
	"github.com/nostalgic/widgets/internal/session"
	"github.com/nostalgic/widgets/internal/widget"
	"github.com/nostalgic/widgets/pkg/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// visitorHash is the identity the fake API derives for test requests
// (httptest requests come from 192.0.2.1).
const visitorHash = "h:192.0.2.1"

// fakeAPI is an in-memory nostalgic API
type fakeAPI struct {
	srv *httptest.Server

	mu       sync.Mutex
	perPage  int
	messages []domain.BBSMessage // oldest first
	calls    []string
	visits   int
	likes    map[string]bool
	nextID   int
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{perPage: 10, likes: map[string]bool{}}
	f.srv = httptest.NewServer(f)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) seed(author, body, hash string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.messages = append(f.messages, domain.BBSMessage{
		ID:        "m" + strconv.Itoa(f.nextID),
		Author:    author,
		Message:   body,
		Timestamp: time.Date(2025, 1, 1, 0, f.nextID, 0, 0, time.UTC).Format(time.RFC3339),
		UserHash:  hash,
	})
}

func (f *fakeAPI) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func writeData(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data})
}

func writeFailure(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": msg})
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	q := r.URL.Query()
	call := strings.TrimPrefix(r.URL.Path, "/") + "." + q.Get("action")
	f.calls = append(f.calls, call)
	hash := "h:" + r.Header.Get("X-Forwarded-For")

	switch call {
	case "bbs.get":
		page, _ := strconv.Atoi(q.Get("page"))
		if page < 1 {
			page = 1
		}
		newest := make([]domain.BBSMessage, 0, len(f.messages))
		for i := len(f.messages) - 1; i >= 0; i-- {
			newest = append(newest, f.messages[i])
		}
		start := (page - 1) * f.perPage
		end := start + f.perPage
		if start > len(newest) {
			start = len(newest)
		}
		if end > len(newest) {
			end = len(newest)
		}
		writeData(w, domain.BBSPage{
			ID:              q.Get("id"),
			Title:           "Guestbook",
			Messages:        newest[start:end],
			TotalMessages:   len(f.messages),
			MessagesPerPage: f.perPage,
			CurrentPage:     page,
			CurrentUserHash: hash,
		})
	case "bbs.post":
		if strings.TrimSpace(q.Get("message")) == "" {
			writeFailure(w, "Message is required")
			return
		}
		f.nextID++
		f.messages = append(f.messages, domain.BBSMessage{
			ID:        "m" + strconv.Itoa(f.nextID),
			Author:    q.Get("author"),
			Message:   q.Get("message"),
			Timestamp: time.Date(2025, 1, 1, 0, f.nextID, 0, 0, time.UTC).Format(time.RFC3339),
			UserHash:  hash,
		})
		writeData(w, nil)
	case "bbs.update", "bbs.remove":
		for i, m := range f.messages {
			if m.ID != q.Get("messageId") {
				continue
			}
			if m.UserHash != hash {
				writeFailure(w, "You can only edit your own messages")
				return
			}
			if call == "bbs.remove" {
				f.messages = append(f.messages[:i], f.messages[i+1:]...)
			} else {
				f.messages[i].Message = q.Get("message")
			}
			writeData(w, nil)
			return
		}
		writeFailure(w, "Message not found")
	case "visit.increment":
		f.visits++
		writeData(w, domain.CounterStats{ID: q.Get("id"), Total: f.visits, Today: f.visits})
	case "visit.display":
		writeData(w, domain.CounterStats{ID: q.Get("id"), Total: f.visits, Today: f.visits})
	case "like.get", "like.toggle":
		if call == "like.toggle" {
			f.likes[hash] = !f.likes[hash]
		}
		total := 0
		for _, liked := range f.likes {
			if liked {
				total++
			}
		}
		writeData(w, domain.LikeState{ID: q.Get("id"), Total: total, UserLiked: f.likes[hash]})
	case "ranking.get":
		writeData(w, domain.RankingBoard{ID: q.Get("id"), Title: "High scores", Entries: []domain.RankingEntry{
			{Name: "alice", Score: 300}, {Name: "bob", Score: 200}, {Name: "carol", Score: 100},
		}})
	case "yokoso.get":
		writeData(w, domain.YokosoMessage{ID: q.Get("id"), Message: "ようこそ", Author: "kako"})
	default:
		writeFailure(w, "Invalid action")
	}
}

type testEnv struct {
	router   *gin.Engine
	api      *fakeAPI
	registry *session.Registry
	cfg      *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := newFakeAPI(t)
	cfg := config.Default()
	cfg.API.BaseURL = api.srv.URL
	bundle := i18n.Default()

	apiClient := client.New(api.srv.URL)
	registry := session.New(func() *widget.Controller {
		return widget.NewController(apiClient, widget.Options{
			Bundle:        bundle,
			AmbientLocale: i18n.LocaleEn,
			ToastDuration: time.Minute,
		})
	}, nil, time.Minute, 10)
	t.Cleanup(registry.Close)

	h := NewWidgetHandler(cfg, registry, bundle, func(base string) *widget.Siblings {
		return widget.NewSiblings(client.New(base), bundle, i18n.LocaleEn)
	})
	health := NewHealthHandler(nil, registry)

	router := gin.New()
	router.Use(middleware.I18n())
	router.GET("/healthz", health.Healthz)
	router.GET("/widgets/bbs", h.GetBBS)
	router.GET("/widgets/counter", h.GetCounter)
	router.GET("/widgets/like", h.GetLike)
	router.GET("/widgets/ranking", h.GetRanking)
	router.GET("/widgets/yokoso", h.GetYokoso)
	router.POST("/widgets/like/toggle", h.ToggleLike)
	bbs := router.Group("/widgets/bbs/:instance")
	bbs.POST("/draft", h.SaveDraft)
	bbs.POST("/submit", h.Submit)
	bbs.POST("/edit", h.Edit)
	bbs.POST("/cancel", h.Cancel)
	bbs.POST("/delete", h.Delete)
	bbs.POST("/page", h.GoToPage)

	return &testEnv{router: router, api: api, registry: registry, cfg: cfg}
}

func (e *testEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// getFrom is get for a visitor at another address
func (e *testEnv) getFrom(t *testing.T, remoteAddr, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = remoteAddr
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) post(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	return e.postFrom(t, "", target, form)
}

func (e *testEnv) postFrom(t *testing.T, remoteAddr, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func document(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	return doc
}

// composerAction returns the instance action prefix from the rendered composer
func composerAction(t *testing.T, doc *goquery.Document) string {
	t.Helper()
	action, ok := doc.Find("form.bbs-composer").Attr("action")
	require.True(t, ok, "composer form not rendered")
	return strings.TrimSuffix(action, "/submit")
}

func TestGetBBS_MissingID(t *testing.T) {
	env := newTestEnv(t)

	w := env.get(t, "/widgets/bbs?theme=retro")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	doc := document(t, w)
	assert.Equal(t, "The id attribute is required", strings.TrimSpace(doc.Find(".bbs-error").Text()))
	assert.Equal(t, 0, env.api.count("bbs.get"))
}

func TestGetBBS_RendersBoardWithOwnership(t *testing.T) {
	env := newTestEnv(t)
	env.api.seed("kako", "first", visitorHash)
	env.api.seed("guest", "second", "h:someone-else")

	w := env.get(t, "/widgets/bbs?id=b1&lang=en")
	require.Equal(t, http.StatusOK, w.Code)
	doc := document(t, w)

	assert.Equal(t, "Guestbook", doc.Find("title").Text())
	entries := doc.Find("li.bbs-entry")
	require.Equal(t, 2, entries.Length())

	own := doc.Find(`li.bbs-entry[data-id="m1"]`)
	assert.Equal(t, "#1", own.Find(".bbs-ordinal").Text())
	assert.Equal(t, 1, own.Find("form.bbs-edit").Length())
	assert.Equal(t, 1, own.Find("form.bbs-delete").Length())

	foreign := doc.Find(`li.bbs-entry[data-id="m2"]`)
	assert.Equal(t, "#2", foreign.Find(".bbs-ordinal").Text())
	assert.Equal(t, 0, foreign.Find("form.bbs-edit").Length())

	action := composerAction(t, doc)
	assert.True(t, strings.HasPrefix(action, "/widgets/bbs/"))
	assert.True(t, session.ValidID(strings.TrimPrefix(action, "/widgets/bbs/")))
}

func TestGetBBS_SameInstanceDoesNotRefetch(t *testing.T) {
	env := newTestEnv(t)
	env.api.seed("kako", "first", visitorHash)

	doc := document(t, env.get(t, "/widgets/bbs?id=b1"))
	instance := strings.TrimPrefix(composerAction(t, doc), "/widgets/bbs/")
	fetches := env.api.count("bbs.get")

	env.get(t, "/widgets/bbs?id=b1&instance="+instance)
	assert.Equal(t, fetches, env.api.count("bbs.get"))
}

func TestGetBBS_InstanceIsBoundToItsVisitor(t *testing.T) {
	env := newTestEnv(t)
	env.api.seed("kako", "first", visitorHash)

	doc := document(t, env.get(t, "/widgets/bbs?id=b1&lang=en"))
	action := composerAction(t, doc)
	instance := strings.TrimPrefix(action, "/widgets/bbs/")
	require.Equal(t, 1, doc.Find(`li.bbs-entry[data-id="m1"] form.bbs-edit`).Length())
	env.post(t, action+"/draft", url.Values{"message": {"unsent words"}})

	const stranger = "198.51.100.7:4321"
	w := env.getFrom(t, stranger, "/widgets/bbs?id=b1&lang=en&instance="+instance)
	require.Equal(t, http.StatusOK, w.Code)
	doc = document(t, w)
	assert.Equal(t, 0, doc.Find("form.bbs-edit").Length())
	assert.Equal(t, 0, doc.Find("form.bbs-delete").Length())
	assert.Equal(t, "", doc.Find("form.bbs-composer textarea").Text())
	assert.NotEqual(t, action, composerAction(t, doc))

	w = env.postFrom(t, stranger, action+"/edit", url.Values{"entry": {"m1"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	doc = document(t, env.get(t, "/widgets/bbs?id=b1&lang=en&instance="+instance))
	assert.Equal(t, action, composerAction(t, doc))
	assert.Equal(t, "unsent words", doc.Find("form.bbs-composer textarea").Text())
}

func TestBBS_InvalidFormsAreIgnored(t *testing.T) {
	env := newTestEnv(t)
	env.api.seed("kako", "first", visitorHash)
	action := composerAction(t, document(t, env.get(t, "/widgets/bbs?id=b1&lang=en")))
	fetches := env.api.count("bbs.get")

	w := env.post(t, action+"/page", url.Values{"page": {"0"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.NotContains(t, w.Header().Get("Location"), "page=")

	w = env.post(t, action+"/edit", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	doc := document(t, env.get(t, w.Header().Get("Location")))
	assert.Equal(t, 0, doc.Find(".bbs-editing").Length())
	assert.Equal(t, fetches, env.api.count("bbs.get"))

	w = env.post(t, "/widgets/bbs/not-an-instance/submit", url.Values{"message": {"hi"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, env.api.count("bbs.post"))
}

func TestBBS_SubmitRedirectsAndShowsToast(t *testing.T) {
	env := newTestEnv(t)
	env.api.seed("kako", "first", visitorHash)

	action := composerAction(t, document(t, env.get(t, "/widgets/bbs?id=b1&lang=en")))

	w := env.post(t, action+"/submit", url.Values{"author": {"visitor"}, "message": {"hello there"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	location := w.Header().Get("Location")
	assert.Contains(t, location, "/widgets/bbs?")
	assert.Contains(t, location, "id=b1")
	assert.Contains(t, location, "instance="+strings.TrimPrefix(action, "/widgets/bbs/"))
	assert.Equal(t, 1, env.api.count("bbs.post"))

	doc := document(t, env.get(t, location))
	assert.Equal(t, "Your message was posted", strings.TrimSpace(doc.Find(".widget-toast-success").Text()))
	assert.Equal(t, 2, doc.Find("li.bbs-entry").Length())
	assert.Contains(t, doc.Find("li.bbs-entry .bbs-body").Text(), "hello there")
	// composer was cleared
	assert.Equal(t, "", doc.Find("form.bbs-composer textarea").Text())
}

func TestBBS_SubmitFailureKeepsDraft(t *testing.T) {
	env := newTestEnv(t)
	env.api.seed("kako", "first", visitorHash)
	action := composerAction(t, document(t, env.get(t, "/widgets/bbs?id=b1&lang=ja")))

	w := env.post(t, action+"/submit", url.Values{"author": {"visitor"}, "message": {"   "}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	doc := document(t, env.get(t, w.Header().Get("Location")))
	assert.NotEmpty(t, strings.TrimSpace(doc.Find(".bbs-form-error").Text()))
	assert.Equal(t, 1, doc.Find(".widget-toast-error").Length())
	author, _ := doc.Find(`form.bbs-composer input[name="author"]`).Attr("value")
	assert.Equal(t, "visitor", author)
}

func TestBBS_EditAndCancel(t *testing.T) {
	env := newTestEnv(t)
	env.api.seed("kako", "first", visitorHash)
	action := composerAction(t, document(t, env.get(t, "/widgets/bbs?id=b1&lang=en")))

	w := env.post(t, action+"/edit", url.Values{"entry": {"m1"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	doc := document(t, env.get(t, w.Header().Get("Location")))
	assert.Equal(t, "Editing #1", strings.TrimSpace(doc.Find(".bbs-editing").Text()))
	assert.Equal(t, "first", doc.Find("form.bbs-composer textarea").Text())

	w = env.post(t, action+"/submit", url.Values{"author": {"kako"}, "message": {"edited"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 1, env.api.count("bbs.update"))
	doc = document(t, env.get(t, w.Header().Get("Location")))
	assert.Equal(t, "edited", doc.Find(`li.bbs-entry[data-id="m1"] .bbs-body`).Text())
	assert.Equal(t, 0, doc.Find(".bbs-editing").Length())

	env.post(t, action+"/edit", url.Values{"entry": {"m1"}})
	w = env.post(t, action+"/cancel", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	doc = document(t, env.get(t, w.Header().Get("Location")))
	assert.Equal(t, 0, doc.Find(".bbs-editing").Length())
}

func TestBBS_DeleteNeedsConfirmation(t *testing.T) {
	env := newTestEnv(t)
	env.api.seed("kako", "first", visitorHash)
	env.api.seed("kako", "second", visitorHash)
	action := composerAction(t, document(t, env.get(t, "/widgets/bbs?id=b1&lang=en")))

	w := env.post(t, action+"/delete", url.Values{"entry": {"m1"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 0, env.api.count("bbs.remove"))
	doc := document(t, env.get(t, w.Header().Get("Location")))
	assert.Equal(t, "Deletion was cancelled", strings.TrimSpace(doc.Find(".bbs-form-error").Text()))

	w = env.post(t, action+"/delete", url.Values{"entry": {"m1"}, "confirm": {"yes"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 1, env.api.count("bbs.remove"))
	doc = document(t, env.get(t, w.Header().Get("Location")))
	assert.Equal(t, 1, doc.Find("li.bbs-entry").Length())
	assert.Equal(t, "The message was deleted", strings.TrimSpace(doc.Find(".widget-toast-success").Text()))
}

func TestBBS_DeleteForeignEntryIsRefusedLocally(t *testing.T) {
	env := newTestEnv(t)
	env.api.seed("guest", "not yours", "h:someone-else")
	action := composerAction(t, document(t, env.get(t, "/widgets/bbs?id=b1&lang=en")))

	w := env.post(t, action+"/delete", url.Values{"entry": {"m1"}, "confirm": {"yes"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 0, env.api.count("bbs.remove"))

	doc := document(t, env.get(t, w.Header().Get("Location")))
	assert.Equal(t, "You do not have permission to delete this message", strings.TrimSpace(doc.Find(".bbs-form-error").Text()))
}

func TestBBS_PageNavigation(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 25; i++ {
		env.api.seed("kako", fmt.Sprintf("message %d", i+1), visitorHash)
	}

	doc := document(t, env.get(t, "/widgets/bbs?id=b1&lang=en"))
	assert.Equal(t, 3, doc.Find("form.bbs-pages button").Length())
	action := composerAction(t, doc)

	w := env.post(t, action+"/page", url.Values{"page": {"1"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	location := w.Header().Get("Location")
	assert.Contains(t, location, "page=1")

	doc = document(t, env.get(t, location))
	current := doc.Find(`form.bbs-pages button[aria-current="page"]`)
	assert.Equal(t, "1", current.AttrOr("value", ""))
	assert.Equal(t, "#25", doc.Find("li.bbs-entry .bbs-ordinal").First().Text())
}

func TestBBS_ActionOnUnknownInstance(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, "/widgets/bbs/"+session.NewID()+"/submit", url.Values{"message": {"hi"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	doc := document(t, w)
	assert.Equal(t, "This widget has expired. Please reload the page", strings.TrimSpace(doc.Find(".bbs-error").Text()))
	assert.Equal(t, 0, env.api.count("bbs.post"))
}

func TestBBS_SaveDraftSurvivesReload(t *testing.T) {
	env := newTestEnv(t)
	action := composerAction(t, document(t, env.get(t, "/widgets/bbs?id=b1&lang=en")))

	w := env.post(t, action+"/draft", url.Values{"author": {"kako"}, "message": {"half written"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	doc := document(t, env.get(t, w.Header().Get("Location")))
	assert.Equal(t, "half written", doc.Find("form.bbs-composer textarea").Text())
	assert.Equal(t, 0, env.api.count("bbs.post"))
}

func TestGetBBS_JSON(t *testing.T) {
	env := newTestEnv(t)
	env.api.seed("kako", "first", visitorHash)

	w := env.get(t, "/widgets/bbs?id=b1&format=json")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data bbsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Guestbook", body.Data.Title)
	assert.Equal(t, 1, body.Data.TotalEntries)
	require.Len(t, body.Data.Entries, 1)
	assert.Equal(t, 1, body.Data.Entries[0].Ordinal)
	assert.True(t, body.Data.Entries[0].CanMutate)
	assert.True(t, session.ValidID(body.Data.Instance))
}

func TestGetCounter_CountsOncePerInstance(t *testing.T) {
	env := newTestEnv(t)
	instance := session.NewID()

	w := env.get(t, "/widgets/counter?id=c1&type=today&digits=5&instance="+instance)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "00001", strings.TrimSpace(document(t, w).Find(".counter-value").Text()))

	env.get(t, "/widgets/counter?id=c1&type=today&digits=5&instance="+instance)
	assert.Equal(t, 1, env.api.count("visit.increment"))
	assert.Equal(t, 1, env.api.count("visit.display"))

	env.get(t, "/widgets/counter?id=c1&instance="+session.NewID())
	assert.Equal(t, 2, env.api.count("visit.increment"))
}

func TestGetCounter_ImageFormat(t *testing.T) {
	env := newTestEnv(t)

	w := env.get(t, "/widgets/counter?id=c1&format=image&theme=retro")
	doc := document(t, w)
	src, ok := doc.Find("img.counter-image").Attr("src")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(src, env.api.srv.URL+"/visit?"))
	assert.Contains(t, src, "format=image")
}

func TestLike_ToggleRedirectsToView(t *testing.T) {
	env := newTestEnv(t)

	doc := document(t, env.get(t, "/widgets/like?id=l1&lang=en"))
	assert.Equal(t, "false", doc.Find("form.like-form button").AttrOr("aria-pressed", ""))

	w := env.post(t, "/widgets/like/toggle", url.Values{"id": {"l1"}, "lang": {"en"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	location := w.Header().Get("Location")
	assert.True(t, strings.HasPrefix(location, "/widgets/like?"))

	doc = document(t, env.get(t, location))
	assert.Equal(t, "true", doc.Find("form.like-form button").AttrOr("aria-pressed", ""))
	assert.Equal(t, 1, env.api.count("like.toggle"))
}

func TestGetRankingAndYokoso(t *testing.T) {
	env := newTestEnv(t)

	doc := document(t, env.get(t, "/widgets/ranking?id=r1&limit=2"))
	assert.Equal(t, 2, doc.Find("li.ranking-entry").Length())
	assert.Equal(t, "1", doc.Find("li.ranking-entry").First().AttrOr("data-rank", ""))

	doc = document(t, env.get(t, "/widgets/yokoso?id=y1"))
	assert.Equal(t, "ようこそ", doc.Find(".yokoso-message").Text())
}

func TestSiblings_MissingIDAsJSON(t *testing.T) {
	env := newTestEnv(t)

	w := env.get(t, "/widgets/like?format=json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "The id attribute is required")
}

func TestSiblings_APIBaseAllowlist(t *testing.T) {
	env := newTestEnv(t)
	other := newFakeAPI(t)
	env.cfg.API.AllowedBases = []string{other.srv.URL}

	env.get(t, "/widgets/yokoso?id=y1&api-base="+url.QueryEscape(other.srv.URL))
	assert.Equal(t, 1, other.count("yokoso.get"))
	assert.Equal(t, 0, env.api.count("yokoso.get"))

	env.get(t, "/widgets/yokoso?id=y1&api-base="+url.QueryEscape("https://evil.example.com/api"))
	assert.Equal(t, 1, env.api.count("yokoso.get"))
	assert.Equal(t, 1, other.count("yokoso.get"))
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	w := env.get(t, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"disabled"`)
}
