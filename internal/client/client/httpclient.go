package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/common"
	"github.com/dmitrijs2005/recipebook/internal/logging"
	"github.com/google/uuid"
)

const (
	pathCreateUser  = "/user/create/"
	pathToken       = "/user/token/"
	pathMe          = "/user/me/"
	pathRecipes     = "/recipe/recipes/"
	pathTags        = "/recipe/tags/"
	pathIngredients = "/recipe/ingredients/"
)

// newRequestID is a test seam for the X-Request-ID value.
var newRequestID = func() string { return uuid.NewString() }

// HTTPClient talks to the recipe REST API over HTTP/JSON.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
}

// NewHTTPClient validates baseURL and returns a client whose requests time
// out after timeout (zero disables the limit).
func NewHTTPClient(baseURL string, timeout time.Duration, logger logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api base url %q: scheme must be http or https", baseURL)
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

type request struct {
	method      string
	path        string
	query       url.Values
	token       string
	body        io.Reader
	contentType string
}

func jsonRequest(method, path, token string, in any) (request, error) {
	r := request{method: method, path: path, token: token}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return r, fmt.Errorf("encode request: %w", err)
		}
		r.body = bytes.NewReader(b)
		r.contentType = "application/json"
	}
	return r, nil
}

// do sends r and decodes a successful JSON response into out (when non-nil).
func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return err
	}
	reqID := newRequestID()
	req.Header.Set(common.RequestIDHeaderName, reqID)
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set(common.AuthHeaderName, common.TokenScheme+" "+r.token)
	}

	log := c.logger.With("request_id", reqID, "method", r.method, "path", r.path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return c.mapError(ctx, err)
	}
	defer resp.Body.Close()

	log.Debug(ctx, "request finished", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if len(data) > 0 {
			var body ErrorBody
			if json.Unmarshal(data, &body) == nil {
				apiErr.Body = body
			}
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapError converts transport failures into ErrUnavailable, keeping context
// cancellation distinguishable.
func (c *HTTPClient) mapError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %s", ErrUnavailable, urlErr.Err.Error())
	}
	return fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
}

func (c *HTTPClient) sendJSON(ctx context.Context, method, path, token string, in, out any) error {
	r, err := jsonRequest(method, path, token, in)
	if err != nil {
		return err
	}
	return c.do(ctx, r, out)
}

func recipePath(id int64) string {
	return itemPath(pathRecipes, id)
}

func itemPath(base string, id int64) string {
	return base + strconv.FormatInt(id, 10) + "/"
}

func assignedQuery(assignedOnly bool) url.Values {
	if !assignedOnly {
		return nil
	}
	return url.Values{"assigned_only": []string{"1"}}
}

func (c *HTTPClient) CreateUser(ctx context.Context, email, password, name string) error {
	in := models.Credentials{Email: email, Password: password, Name: name}
	return c.sendJSON(ctx, http.MethodPost, pathCreateUser, "", in, nil)
}

func (c *HTTPClient) CreateToken(ctx context.Context, email, password string) (string, error) {
	var out models.AuthToken
	in := models.Credentials{Email: email, Password: password}
	if err := c.sendJSON(ctx, http.MethodPost, pathToken, "", in, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *HTTPClient) GetMe(ctx context.Context, token string) (*models.User, error) {
	var out models.User
	if err := c.sendJSON(ctx, http.MethodGet, pathMe, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateMe(ctx context.Context, token string, u models.ProfileUpdate) (*models.User, error) {
	var out models.User
	if err := c.sendJSON(ctx, http.MethodPut, pathMe, token, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) PatchMe(ctx context.Context, token string, p models.ProfilePatch) (*models.User, error) {
	var out models.User
	if err := c.sendJSON(ctx, http.MethodPatch, pathMe, token, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListRecipes(ctx context.Context, token string, f models.RecipeFilter) ([]models.Recipe, error) {
	var out []models.Recipe
	r := request{method: http.MethodGet, path: pathRecipes, query: f.Query(), token: token}
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetRecipe(ctx context.Context, token string, id int64) (*models.Recipe, error) {
	var out models.Recipe
	if err := c.sendJSON(ctx, http.MethodGet, recipePath(id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateRecipe(ctx context.Context, token string, rec models.Recipe) (*models.Recipe, error) {
	var out models.Recipe
	if err := c.sendJSON(ctx, http.MethodPost, pathRecipes, token, rec, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateRecipe(ctx context.Context, token string, id int64, rec models.Recipe) (*models.Recipe, error) {
	var out models.Recipe
	rec.ID = nil
	if err := c.sendJSON(ctx, http.MethodPut, recipePath(id), token, rec, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) PatchRecipe(ctx context.Context, token string, id int64, p models.RecipePatch) (*models.Recipe, error) {
	var out models.Recipe
	if err := c.sendJSON(ctx, http.MethodPatch, recipePath(id), token, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteRecipe(ctx context.Context, token string, id int64) error {
	return c.sendJSON(ctx, http.MethodDelete, recipePath(id), token, nil, nil)
}

// UploadRecipeImage posts image as the multipart "image" field and returns
// the URL the server assigned to it.
func (c *HTTPClient) UploadRecipeImage(ctx context.Context, token string, id int64, filename string, image io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, image); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	var out struct {
		Image string `json:"image"`
	}
	r := request{
		method:      http.MethodPost,
		path:        recipePath(id) + "upload-image/",
		token:       token,
		body:        &buf,
		contentType: mw.FormDataContentType(),
	}
	if err := c.do(ctx, r, &out); err != nil {
		return "", err
	}
	return out.Image, nil
}

func (c *HTTPClient) ListTags(ctx context.Context, token string, assignedOnly bool) ([]models.Tag, error) {
	var out []models.Tag
	r := request{method: http.MethodGet, path: pathTags, query: assignedQuery(assignedOnly), token: token}
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) UpdateTag(ctx context.Context, token string, id int64, name string) (*models.Tag, error) {
	var out models.Tag
	if err := c.sendJSON(ctx, http.MethodPatch, itemPath(pathTags, id), token, models.Tag{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteTag(ctx context.Context, token string, id int64) error {
	return c.sendJSON(ctx, http.MethodDelete, itemPath(pathTags, id), token, nil, nil)
}

func (c *HTTPClient) ListIngredients(ctx context.Context, token string, assignedOnly bool) ([]models.Ingredient, error) {
	var out []models.Ingredient
	r := request{method: http.MethodGet, path: pathIngredients, query: assignedQuery(assignedOnly), token: token}
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) UpdateIngredient(ctx context.Context, token string, id int64, name string) (*models.Ingredient, error) {
	var out models.Ingredient
	if err := c.sendJSON(ctx, http.MethodPatch, itemPath(pathIngredients, id), token, models.Ingredient{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteIngredient(ctx context.Context, token string, id int64) error {
	return c.sendJSON(ctx, http.MethodDelete, itemPath(pathIngredients, id), token, nil, nil)
}
