// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/flamego/csrf"
	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/growthwave/who"
)

type testSession struct {
	id    string
	data  map[interface{}]interface{}
	flash interface{}
}

func newTestSession() *testSession {
	return &testSession{
		id:   "test-session",
		data: make(map[interface{}]interface{}),
	}
}

func (s *testSession) ID() string {
	return s.id
}

func (s *testSession) RegenerateID(http.ResponseWriter, *http.Request) error {
	return nil
}

func (s *testSession) Get(key interface{}) interface{} {
	return s.data[key]
}

func (s *testSession) Set(key, val interface{}) {
	s.data[key] = val
}

func (s *testSession) SetFlash(val interface{}) {
	s.flash = val
}

func (s *testSession) Delete(key interface{}) {
	delete(s.data, key)
}

func (s *testSession) Flush() {
	s.data = make(map[interface{}]interface{})
}

func (s *testSession) Encode() ([]byte, error) {
	return nil, nil
}

func (s *testSession) HasChanged() bool {
	return true
}

type testCSRF struct {
	token string
}

func (c testCSRF) Token() string {
	return c.token
}

func (c testCSRF) ValidToken(string) bool {
	return true
}

func (c testCSRF) Error(http.ResponseWriter) {}

func (c testCSRF) Validate(flamego.Context) {}

// testTemplate records the last rendered template instead of rendering it
type testTemplate struct {
	status int
	name   string
}

func (t *testTemplate) HTML(status int, name string) {
	t.status = status
	t.name = name
}

// sampleTable has boys' data only, with a single median of 15.8.
func sampleTable() *who.ReferenceTable {
	return who.BuildReferenceTable([]who.PercentileRow{
		{AgeMonths: 24, Gender: who.Male, Percentile: 50, BMI: 15.8},
		{AgeMonths: 24, Gender: who.Male, Percentile: 97, BMI: 19.1},
	})
}

type testApp struct {
	f        *flamego.Flame
	session  *testSession
	template *testTemplate
	data     template.Data
}

func newTestApp(source *who.Source, fetcher ReferenceFetcher) *testApp {
	app := &testApp{
		f:        flamego.New(),
		session:  newTestSession(),
		template: &testTemplate{},
		data:     template.Data{},
	}

	if fetcher == nil {
		fetcher = NoBackend()
	}

	app.f.Map(source)
	app.f.MapTo(fetcher, (*ReferenceFetcher)(nil))
	app.f.Use(func(c flamego.Context) {
		c.MapTo(app.session, (*session.Session)(nil))
		c.MapTo(app.template, (*template.Template)(nil))
		c.Map(app.data)
		c.Next()
	})

	return app
}

func (a *testApp) do(method, path, body, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	rec := httptest.NewRecorder()
	a.f.ServeHTTP(rec, req)

	return rec
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	return a.do(http.MethodPost, path, form.Encode(), "application/x-www-form-urlencoded")
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, wantLocation string) {
	t.Helper()

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	if got := rec.Header().Get("Location"); got != wantLocation {
		t.Fatalf("expected redirect %q, got %q", wantLocation, got)
	}
}

func assertFlash(t *testing.T, s *testSession, wantType FlashType, wantMessage string) {
	t.Helper()

	msg, ok := s.flash.(FlashMessage)
	if !ok {
		t.Fatalf("expected flash message, got %T", s.flash)
	}

	if msg.Type != wantType || msg.Message != wantMessage {
		t.Fatalf("unexpected flash message: %#v", msg)
	}
}

func TestSetFlashHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		set     func(session.Session, string)
		wantTyp FlashType
		class   string
	}{
		{name: "error", set: SetErrorFlash, wantTyp: FlashError, class: "alert-danger"},
		{name: "success", set: SetSuccessFlash, wantTyp: FlashSuccess, class: "alert-success"},
		{name: "warning", set: SetWarningFlash, wantTyp: FlashWarning, class: "alert-warning"},
		{name: "info", set: SetInfoFlash, wantTyp: FlashInfo, class: "alert-info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestSession()
			tt.set(s, "hello")

			msg, ok := s.flash.(FlashMessage)
			if !ok {
				t.Fatalf("flash has unexpected type: %T", s.flash)
			}

			if msg.Type != tt.wantTyp || msg.Message != "hello" {
				t.Fatalf("unexpected flash message: %#v", msg)
			}
			if msg.CSSClass() != tt.class {
				t.Fatalf("expected class %q, got %q", tt.class, msg.CSSClass())
			}
		})
	}
}

func TestCSRFInjector(t *testing.T) {
	t.Parallel()

	handler, ok := CSRFInjector().(func(csrf.CSRF, template.Data))
	if !ok {
		t.Fatalf("unexpected CSRFInjector handler type")
	}

	data := template.Data{}
	handler(testCSRF{token: "csrf-123"}, data)

	if got, ok := data["csrf_token"].(string); !ok || got != "csrf-123" {
		t.Fatalf("unexpected csrf_token value: %#v", data["csrf_token"])
	}
}

func TestFlashInjector(t *testing.T) {
	t.Parallel()

	handler, ok := FlashInjector().(func(session.Flash, template.Data))
	if !ok {
		t.Fatalf("unexpected FlashInjector handler type")
	}

	data := template.Data{}
	handler(FlashMessage{Type: FlashSuccess, Message: "saved"}, data)
	if msg, ok := data["Flash"].(FlashMessage); !ok || msg.Message != "saved" {
		t.Fatalf("unexpected Flash value: %#v", data["Flash"])
	}

	empty := template.Data{}
	handler(nil, empty)
	if _, ok := empty["Flash"]; ok {
		t.Fatalf("expected no flash without a message")
	}
}

func TestReferenceStatusInjector(t *testing.T) {
	t.Parallel()

	handler, ok := ReferenceStatusInjector().(func(*who.Source, template.Data))
	if !ok {
		t.Fatalf("unexpected ReferenceStatusInjector handler type")
	}

	data := template.Data{}
	handler(who.NewSource(sampleTable(), "test"), data)
	if data["ReferenceReady"] != false {
		t.Fatalf("expected reference not ready with one gender, got %v", data["ReferenceReady"])
	}

	handler(who.NewSource(who.StandardTable(), "bundled"), data)
	if data["ReferenceReady"] != true {
		t.Fatalf("expected reference ready with the standard table")
	}
}

func TestNoCacheHeaders(t *testing.T) {
	t.Parallel()

	f := flamego.New()
	f.Use(NoCacheHeaders())
	f.Get("/", func(c flamego.Context) {
		c.ResponseWriter().WriteHeader(http.StatusNoContent)
	})
	f.Post("/", func(c flamego.Context) {
		c.ResponseWriter().WriteHeader(http.StatusNoContent)
	})

	getRec := httptest.NewRecorder()
	f.ServeHTTP(getRec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := getRec.Header().Get("Cache-Control"); got != "no-store, max-age=0" {
		t.Fatalf("unexpected Cache-Control for GET: %q", got)
	}
	if got := getRec.Header().Get("Pragma"); got != "no-cache" {
		t.Fatalf("unexpected Pragma for GET: %q", got)
	}

	postRec := httptest.NewRecorder()
	f.ServeHTTP(postRec, httptest.NewRequest(http.MethodPost, "/", nil))

	if got := postRec.Header().Get("Cache-Control"); got != "" {
		t.Fatalf("expected no Cache-Control for POST, got %q", got)
	}
}

func TestSiteTitle(t *testing.T) {
	t.Setenv(siteTitleEnvVar, "")
	if got := siteTitle(); got != defaultSiteTitle {
		t.Fatalf("expected default title, got %q", got)
	}

	t.Setenv(siteTitleEnvVar, "  Clinic Growth  ")
	if got := siteTitle(); got != "Clinic Growth" {
		t.Fatalf("expected trimmed custom title, got %q", got)
	}
}
