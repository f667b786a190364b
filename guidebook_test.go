package guidebook

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guidebook-kb/guidebook/auth"
	"github.com/guidebook-kb/guidebook/storage"
	"github.com/guidebook-kb/guidebook/storage/model"
)

type testEnv struct {
	t         *testing.T
	gb        *Guidebook
	articles  *storage.ArticlesFileStorage
	users     *storage.UsersFileStorage
	usersPath string
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	dir := t.TempDir()
	articles := storage.NewArticlesFileStorage(filepath.Join(dir, storage.DefaultArticlesFile))
	users := storage.NewUsersFileStorage(filepath.Join(dir, storage.DefaultUsersFile), nil)
	require.NoError(t, articles.Load())
	require.NoError(t, users.Load())
	require.NoError(t, users.Register("admin", "admin-pw", model.RoleAdmin))
	require.NoError(t, users.Register("leitor", "leitor-pw", model.RoleRegular))
	require.NoError(
		t, articles.Add(
			model.Article{
				Title:    "Política de Férias",
				Category: "RH",
				Content:  "Solicite com 30 dias de antecedência.",
				Keywords: []string{"ferias", "descanso"},
			},
		),
	)
	require.NoError(
		t, articles.Add(
			model.Article{
				Title:    "VPN",
				Category: "TI",
				Content:  "Use o cliente corporativo.",
			},
		),
	)

	backs := model.Backends{
		Articles: articles,
		Users:    users,
	}
	gate := auth.NewGate(auth.NewSessionStore(auth.SessionOptions{CookieName: "test_session"}), users, nil)
	gb, err := New(ServerConf{Port: 5000}, backs, gate, opts)
	require.NoError(t, err)
	return &testEnv{
		t:         t,
		gb:        gb,
		articles:  articles,
		users:     users,
		usersPath: filepath.Join(dir, storage.DefaultUsersFile),
	}
}

type client struct {
	env    *testEnv
	cookie *http.Cookie
}

func (env *testEnv) client() *client {
	return &client{env: env}
}

func (cl *client) do(req *http.Request) *http.Response {
	t := cl.env.t
	t.Helper()
	if cl.cookie != nil {
		req.AddCookie(cl.cookie)
	}
	resp, err := cl.env.gb.App().Test(req, -1)
	require.NoError(t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == "test_session" {
			cl.cookie = ck
		}
	}
	return resp
}

func (cl *client) get(path string) *http.Response {
	return cl.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (cl *client) postForm(path string, form url.Values) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return cl.do(req)
}

func (cl *client) postJSON(path string, body any) *http.Response {
	data, err := json.Marshal(body)
	require.NoError(cl.env.t, err)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(data)))
	req.Header.Set("Content-Type", "application/json")
	return cl.do(req)
}

func (cl *client) login(username, password string) *http.Response {
	return cl.postForm(
		PathLogin, url.Values{
			"usuario": {username},
			"senha":   {password},
		},
	)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func countArticles(t *testing.T, env *testEnv) int64 {
	t.Helper()
	n, err := env.articles.Count()
	require.NoError(t, err)
	return n
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, Options{})
	resp := env.client().get(PathHealth)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"status":"ok"`)
}

func TestLandingRedirectsAnonymous(t *testing.T) {
	env := newTestEnv(t, Options{})
	resp := env.client().get(PathLanding)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, PathLogin, resp.Header.Get("Location"))
}

func TestLoginAndLanding(t *testing.T) {
	env := newTestEnv(t, Options{})
	cl := env.client()
	resp := cl.login("leitor", "leitor-pw")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, PathLanding, resp.Header.Get("Location"))

	resp = cl.get(PathLanding)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "leitor")
}

func TestLoginUnknownUser(t *testing.T) {
	env := newTestEnv(t, Options{})
	cl := env.client()
	resp := cl.login("ninguem", "whatever")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), msgInvalidCredentials)

	resp = cl.get(PathLanding)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t, Options{})
	resp := env.client().login("admin", "wrong")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), msgInvalidCredentials)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t, Options{})
	cl := env.client()
	cl.login("leitor", "leitor-pw")
	resp := cl.get(PathLogout)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, PathLogin, resp.Header.Get("Location"))

	resp = cl.get(PathLanding)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t, Options{})
	cl := env.client()

	var results []model.Article
	resp := cl.postJSON(PathSearch, map[string]string{"termo": "FERIAS"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Política de Férias", results[0].Title)

	resp = cl.postJSON(PathSearch, map[string]string{"termo": ""})
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &results))
	assert.Len(t, results, 2)

	resp = cl.postJSON(PathSearch, map[string]string{"termo": "inexistente"})
	assert.JSONEq(t, `[]`, readBody(t, resp))
}

func TestSearchRequiresLogin(t *testing.T) {
	env := newTestEnv(t, Options{SearchRequiresLogin: true})
	cl := env.client()
	resp := cl.postJSON(PathSearch, map[string]string{"termo": "vpn"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	cl.login("leitor", "leitor-pw")
	resp = cl.postJSON(PathSearch, map[string]string{"termo": "vpn"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAddArticle(t *testing.T) {
	article := map[string]any{
		"titulo":         "Reembolso",
		"categoria":      "Financeiro",
		"conteudo":       "Envie as notas fiscais.",
		"palavras_chave": []string{"notas"},
	}

	t.Run(
		"anonymous", func(t *testing.T) {
			env := newTestEnv(t, Options{})
			resp := env.client().postJSON(PathAdd, article)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			assert.Contains(t, readBody(t, resp), msgUnauthorized)
			assert.Equal(t, int64(2), countArticles(t, env))
		},
	)
	t.Run(
		"regular user", func(t *testing.T) {
			env := newTestEnv(t, Options{})
			cl := env.client()
			cl.login("leitor", "leitor-pw")
			resp := cl.postJSON(PathAdd, article)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			assert.Equal(t, int64(2), countArticles(t, env))
		},
	)
	t.Run(
		"admin", func(t *testing.T) {
			env := newTestEnv(t, Options{})
			cl := env.client()
			cl.login("admin", "admin-pw")
			resp := cl.postJSON(PathAdd, article)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, `{"status":"ok"}`, readBody(t, resp))
			assert.Equal(t, int64(3), countArticles(t, env))

			resp = cl.postJSON(PathSearch, map[string]string{"termo": "notas"})
			var results []model.Article
			require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &results))
			require.Len(t, results, 1)
			assert.Equal(t, "Reembolso", results[0].Title)
		},
	)
	t.Run(
		"incomplete", func(t *testing.T) {
			env := newTestEnv(t, Options{})
			cl := env.client()
			cl.login("admin", "admin-pw")
			resp := cl.postJSON(PathAdd, map[string]string{"titulo": "Sem conteúdo"})
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, readBody(t, resp), msgIncompleteFields)
			assert.Equal(t, int64(2), countArticles(t, env))
		},
	)
}

func TestRegistration(t *testing.T) {
	t.Run(
		"non admin is redirected", func(t *testing.T) {
			env := newTestEnv(t, Options{})
			cl := env.client()
			resp := cl.get(PathRegister)
			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, PathLogin, resp.Header.Get("Location"))

			cl.login("leitor", "leitor-pw")
			resp = cl.postForm(
				PathRegister, url.Values{
					"usuario": {"novo"},
					"senha":   {"pw"},
					"tipo":    {"comum"},
				},
			)
			assert.Equal(t, http.StatusFound, resp.StatusCode)
			_, err := env.users.Get("novo")
			assert.Error(t, err)
		},
	)
	t.Run(
		"admin registers user", func(t *testing.T) {
			env := newTestEnv(t, Options{})
			cl := env.client()
			cl.login("admin", "admin-pw")
			resp := cl.get(PathRegister)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			resp = cl.postForm(
				PathRegister, url.Values{
					"usuario": {"novo"},
					"senha":   {"novo-pw"},
					"tipo":    {"comum"},
				},
			)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, readBody(t, resp), msgUserRegistered)
			acc, err := env.users.Get("novo")
			require.NoError(t, err)
			assert.Equal(t, model.RoleRegular, acc.Role)

			other := env.client()
			resp = other.login("novo", "novo-pw")
			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, PathLanding, resp.Header.Get("Location"))
		},
	)
	t.Run(
		"duplicate user", func(t *testing.T) {
			env := newTestEnv(t, Options{})
			cl := env.client()
			cl.login("admin", "admin-pw")
			resp := cl.postForm(
				PathRegister, url.Values{
					"usuario": {"leitor"},
					"senha":   {"x"},
					"tipo":    {"admin"},
				},
			)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, readBody(t, resp), msgUserExists)
			acc, err := env.users.Get("leitor")
			require.NoError(t, err)
			assert.Equal(t, model.RoleRegular, acc.Role)
		},
	)
	t.Run(
		"invalid role", func(t *testing.T) {
			env := newTestEnv(t, Options{})
			cl := env.client()
			cl.login("admin", "admin-pw")
			resp := cl.postForm(
				PathRegister, url.Values{
					"usuario": {"root"},
					"senha":   {"x"},
					"tipo":    {"superuser"},
				},
			)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, readBody(t, resp), msgRegistrationFields)
			_, err := env.users.Get("root")
			assert.Error(t, err)
		},
	)
}

func TestRegisteredUserSurvivesLaterRequests(t *testing.T) {
	assert.True(t, FiberServerConfig.Immutable)

	env := newTestEnv(t, Options{})
	cl := env.client()
	cl.login("admin", "admin-pw")
	resp := cl.postForm(
		PathRegister, url.Values{
			"usuario": {"zzzzzzzz"},
			"senha":   {"zz-pw"},
			"tipo":    {"comum"},
		},
	)
	assert.Contains(t, readBody(t, resp), msgUserRegistered)

	for _, name := range []string{"qqqqqqqq", "wwwwwwww", "yyyyyyyy"} {
		resp = cl.postForm(
			PathRegister, url.Values{
				"usuario": {name},
				"senha":   {"qq-pw"},
				"tipo":    {"admin"},
			},
		)
		assert.Contains(t, readBody(t, resp), msgUserRegistered)
	}

	acc, err := env.users.Get("zzzzzzzz")
	require.NoError(t, err)
	assert.Equal(t, "zzzzzzzz", acc.Username)
	assert.Equal(t, model.RoleRegular, acc.Role)

	reloaded := storage.NewUsersFileStorage(env.usersPath, nil)
	require.NoError(t, reloaded.Load())
	list, err := reloaded.List()
	require.NoError(t, err)
	names := make([]string, len(list))
	for i, u := range list {
		names[i] = u.Username
	}
	assert.Equal(t, []string{"admin", "leitor", "qqqqqqqq", "wwwwwwww", "yyyyyyyy", "zzzzzzzz"}, names)

	resp = env.client().login("zzzzzzzz", "zz-pw")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, PathLanding, resp.Header.Get("Location"))
}

func TestAdminAPIMounted(t *testing.T) {
	env := newTestEnv(t, Options{AdminAPI: true})
	req := httptest.NewRequest(http.MethodGet, PathAdminAPI+"/articles/count", nil)
	req.SetBasicAuth("admin", "admin-pw")
	resp := env.client().do(req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	env = newTestEnv(t, Options{})
	req = httptest.NewRequest(http.MethodGet, PathAdminAPI+"/articles/count", nil)
	req.SetBasicAuth("admin", "admin-pw")
	resp = env.client().do(req)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
