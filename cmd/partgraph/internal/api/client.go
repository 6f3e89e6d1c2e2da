// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

/*
Package api provides the HTTP client for the geometric model-comparison service.

# Problem Statement

Every partgraph command ultimately talks to the same remote REST API:
model records, folders, metadata keys, assembly trees, and paginated
part-to-part match lists. The commands need:

 1. One place that knows the endpoint layout and auth headers
 2. Typed responses instead of raw JSON maps
 3. Error classification the engine can branch on (404 vs 401 vs 5xx)
 4. An interface seam so the engine is testable without a live tenant

# Solution

ModelService is the contract the engine consumes; Client is the real
HTTP implementation:

	┌────────────────────────────────────────────────────────────┐
	│                     engine (core logic)                    │
	│        depends only on the ModelService interface          │
	├────────────────────────────────────────────────────────────┤
	│                       api.Client                           │
	│                                                            │
	│  GET  /v2/models/{id}                 model record         │
	│  GET  /v2/models/{id}/assembly-tree   bare structure       │
	│  GET  /v2/models/{id}/part-to-part-matches   match page    │
	│  GET  /v2/models                      folder/search page   │
	│  GET/POST/DELETE /v2/folders          folder management    │
	│  GET/POST /v2/metadata-keys           property definitions │
	│  GET/PUT/DELETE /v2/models/{id}/metadata[/{keyId}]         │
	│  POST /v1/{tenant}/models             multipart upload     │
	│  POST /v1/{tenant}/models/reprocess   reindex request      │
	└────────────────────────────────────────────────────────────┘

All requests carry the bearer token, the tenant header, and a fixed
user agent. Failures map to ServiceError values that unwrap to the
package sentinels, so callers write errors.Is(err, api.ErrNotFound)
and still get remediation text for the terminal.

# Pagination

List endpoints return a PageData block. The client exposes single
pages only; sequential aggregation (page = currentPage+1 until
currentPage reaches lastPage) belongs to the engine, which owns the
policy for page size and ordering.

# Related Files

  - errors.go: ServiceError and the sentinel set
  - types.go: wire/domain types shared with the engine
  - ../engine: the consumers of ModelService
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/partgraph/pkg/logging"
)

// userAgent identifies this client in service access logs.
const userAgent = "partgraph-cli/1.0"

// metadataPageSize is the page size used when fetching model metadata.
// Metadata sets are small; one oversized page avoids a pagination loop.
const metadataPageSize = 10000

// -----------------------------------------------------------------------------
// Interface Definition
// -----------------------------------------------------------------------------

// ModelService defines the contract for the remote model-comparison service.
// This interface enables testing the engine with mocks and keeps command
// code independent of the wire details.
//
// All methods honor context cancellation. Implementations must be safe
// for concurrent use.
type ModelService interface {
	// GetModel fetches a single model record by uuid.
	GetModel(ctx context.Context, id uuid.UUID) (*Model, error)

	// GetModelMetadata fetches the metadata items attached to a model.
	// Returns nil (not an error) when the model has no metadata.
	GetModelMetadata(ctx context.Context, id uuid.UUID) ([]ModelMetadataItem, error)

	// GetAssemblyTree fetches the bare assembly structure of a model.
	GetAssemblyTree(ctx context.Context, id uuid.UUID) (*AssemblyTreeNode, error)

	// GetMatchPage fetches one page of part-to-part matches for a model.
	// Threshold is a fraction on the 0..1 scale.
	GetMatchPage(ctx context.Context, id uuid.UUID, threshold float64, page, perPage int) ([]PartToPartMatch, PageData, error)

	// ListModelsPage fetches one page of models filtered by folders and
	// an optional search term.
	ListModelsPage(ctx context.Context, folderIDs []uint32, search string, page, perPage int) ([]Model, PageData, error)

	// ListFolders fetches all folders visible to the tenant.
	ListFolders(ctx context.Context) ([]Folder, error)

	// CreateFolder creates a folder and returns the stored record.
	CreateFolder(ctx context.Context, name string) (*Folder, error)

	// DeleteFolders deletes the folders with the given ids.
	DeleteFolders(ctx context.Context, ids []uint32) error

	// ListProperties fetches all metadata key definitions.
	ListProperties(ctx context.Context) ([]Property, error)

	// CreateProperty creates a metadata key and returns the stored record.
	CreateProperty(ctx context.Context, name string) (*Property, error)

	// SetModelProperty sets the value of one metadata property on a model.
	SetModelProperty(ctx context.Context, modelID uuid.UUID, keyID uint64, value string) error

	// DeleteModelProperty removes one metadata property from a model.
	DeleteModelProperty(ctx context.Context, modelID uuid.UUID, keyID uint64) error

	// DeleteModel deletes a model record.
	DeleteModel(ctx context.Context, id uuid.UUID) error

	// ReprocessModel asks the service to re-run geometry processing.
	ReprocessModel(ctx context.Context, id uuid.UUID) error

	// UploadModel uploads a model file into a folder and returns the
	// created record. The returned model is typically still processing.
	UploadModel(ctx context.Context, folderID uint32, units string, filePath string) (*Model, error)
}

// -----------------------------------------------------------------------------
// Struct Definition
// -----------------------------------------------------------------------------

// Client implements ModelService against the HTTP API.
type Client struct {
	// baseURL is the API root without a trailing slash.
	baseURL string

	// tenant is the tenant name, sent as a header and used in v1 paths.
	tenant string

	// accessToken is the bearer token for every request.
	accessToken string

	// httpClient is used for API requests.
	httpClient *http.Client

	// logger receives request diagnostics.
	logger *logging.Logger
}

// Compile-time interface check.
var _ ModelService = (*Client)(nil)

// NewClient creates a service client for one tenant.
//
// # Description
//
// The token is fixed for the client's lifetime; commands acquire a
// fresh token first and then build the client. Timeout bounds every
// request including body read.
//
// # Inputs
//
//   - baseURL: API root (e.g. "https://api.physna.com")
//   - tenant: tenant name (e.g. "acme")
//   - accessToken: bearer token for the tenant
//   - timeout: per-request timeout
//   - logger: diagnostics sink (logging.Discard() to silence)
//
// # Outputs
//
//   - *Client: configured client instance
func NewClient(baseURL, tenant, accessToken string, timeout time.Duration, logger *logging.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		tenant:      tenant,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// Tenant returns the tenant this client is bound to.
func (c *Client) Tenant() string {
	return c.tenant
}

// -----------------------------------------------------------------------------
// Models
// -----------------------------------------------------------------------------

// GetModel fetches a single model record by uuid.
func (c *Client) GetModel(ctx context.Context, id uuid.UUID) (*Model, error) {
	var resp singleModelResponse
	endpoint := fmt.Sprintf("%s/v2/models/%s", c.baseURL, url.PathEscape(id.String()))
	if err := c.getJSON(ctx, endpoint, nil, id.String(), &resp); err != nil {
		return nil, err
	}
	return &resp.Model, nil
}

// GetModelMetadata fetches the metadata items attached to a model.
//
// Returns nil when the model has no metadata. The endpoint paginates,
// but metadata sets are tiny compared to the page size used here, so
// a single request is sufficient.
func (c *Client) GetModelMetadata(ctx context.Context, id uuid.UUID) ([]ModelMetadataItem, error) {
	endpoint := fmt.Sprintf("%s/v2/models/%s/metadata", c.baseURL, url.PathEscape(id.String()))
	query := url.Values{}
	query.Set("perPage", strconv.Itoa(metadataPageSize))
	query.Set("page", "1")

	var resp modelMetadataResponse
	if err := c.getJSON(ctx, endpoint, query, id.String(), &resp); err != nil {
		return nil, err
	}
	if len(resp.Metadata) == 0 {
		return nil, nil
	}
	return resp.Metadata, nil
}

// GetAssemblyTree fetches the bare assembly structure of a model.
func (c *Client) GetAssemblyTree(ctx context.Context, id uuid.UUID) (*AssemblyTreeNode, error) {
	endpoint := fmt.Sprintf("%s/v2/models/%s/assembly-tree", c.baseURL, url.PathEscape(id.String()))
	var tree AssemblyTreeNode
	if err := c.getJSON(ctx, endpoint, nil, id.String(), &tree); err != nil {
		return nil, err
	}
	return &tree, nil
}

// GetMatchPage fetches one page of part-to-part matches for a model.
func (c *Client) GetMatchPage(ctx context.Context, id uuid.UUID, threshold float64, page, perPage int) ([]PartToPartMatch, PageData, error) {
	endpoint := fmt.Sprintf("%s/v2/models/%s/part-to-part-matches", c.baseURL, url.PathEscape(id.String()))
	query := url.Values{}
	query.Set("threshold", strconv.FormatFloat(threshold, 'f', -1, 64))
	query.Set("perPage", strconv.Itoa(perPage))
	query.Set("page", strconv.Itoa(page))

	var resp matchPageResponse
	if err := c.getJSON(ctx, endpoint, query, id.String(), &resp); err != nil {
		return nil, PageData{}, err
	}
	return resp.Matches, resp.PageData, nil
}

// ListModelsPage fetches one page of models filtered by folders and search.
func (c *Client) ListModelsPage(ctx context.Context, folderIDs []uint32, search string, page, perPage int) ([]Model, PageData, error) {
	endpoint := c.baseURL + "/v2/models"
	query := url.Values{}
	for _, folderID := range folderIDs {
		query.Add("folderIds", strconv.FormatUint(uint64(folderID), 10))
	}
	if search != "" {
		query.Set("search", search)
	}
	query.Set("perPage", strconv.Itoa(perPage))
	query.Set("page", strconv.Itoa(page))

	var resp modelListResponse
	if err := c.getJSON(ctx, endpoint, query, "", &resp); err != nil {
		return nil, PageData{}, err
	}
	return resp.Models, resp.PageData, nil
}

// DeleteModel deletes a model record.
func (c *Client) DeleteModel(ctx context.Context, id uuid.UUID) error {
	endpoint := fmt.Sprintf("%s/v2/models/%s", c.baseURL, url.PathEscape(id.String()))
	return c.doNoBody(ctx, http.MethodDelete, endpoint, nil, id.String())
}

// ReprocessModel asks the service to re-run geometry processing.
//
// The v1 endpoint takes a multipart form with the model uuid, not a
// JSON body.
func (c *Client) ReprocessModel(ctx context.Context, id uuid.UUID) error {
	endpoint := fmt.Sprintf("%s/v1/%s/models/reprocess", c.baseURL, url.PathEscape(c.tenant))

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("uuid", id.String()); err != nil {
		return parseError(id.String(), err)
	}
	if err := form.Close(); err != nil {
		return parseError(id.String(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return connectionError(id.String(), err)
	}
	c.setCommonHeaders(req)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("scope", "tenantApp")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(ctx, id.String(), err)
	}
	defer resp.Body.Close()

	if serr := c.evaluateStatus(resp, id.String()); serr != nil {
		return serr
	}
	c.logger.Debug("reprocess requested", "model_id", id)
	return nil
}

// UploadModel uploads a model file into a folder.
//
// # Description
//
// Sends the file as a single multipart request with the units and
// folder id the service needs to start processing. The returned model
// record carries the new uuid; its state is almost always still
// transient, so callers that need a finished model must poll.
//
// # Inputs
//
//   - ctx: context for cancellation and timeout
//   - folderID: destination folder
//   - units: measurement units of the file geometry (e.g. "mm")
//   - filePath: path of the local file to upload
//
// # Outputs
//
//   - *Model: the created record
//   - error: ServiceError on any failure
func (c *Client) UploadModel(ctx context.Context, folderID uint32, units string, filePath string) (*Model, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, &ServiceError{
			Type:        ServiceErrorUnsupported,
			Resource:    filePath,
			Message:     "Cannot open the file to upload",
			Detail:      err.Error(),
			Remediation: "Check that the path exists and is readable",
		}
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, &ServiceError{
			Type:     ServiceErrorUnsupported,
			Resource: filePath,
			Message:  "Cannot stat the file to upload",
			Detail:   err.Error(),
		}
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, parseError(filePath, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, parseError(filePath, err)
	}
	fields := map[string]string{
		"units":       units,
		"containerId": strconv.FormatUint(uint64(folderID), 10),
		"sourceId":    filepath.Base(filePath),
		"fileSize":    strconv.FormatInt(info.Size(), 10),
		"batch":       uuid.NewString(),
	}
	for key, value := range fields {
		if err := form.WriteField(key, value); err != nil {
			return nil, parseError(filePath, err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, parseError(filePath, err)
	}

	endpoint := fmt.Sprintf("%s/v1/%s/models", c.baseURL, url.PathEscape(c.tenant))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, connectionError(filePath, err)
	}
	c.setCommonHeaders(req)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("scope", "tenantApp")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, filePath, err)
	}
	defer resp.Body.Close()

	if serr := c.evaluateStatus(resp, filePath); serr != nil {
		return nil, serr
	}

	var model Model
	if err := json.NewDecoder(resp.Body).Decode(&model); err != nil {
		return nil, parseError(filePath, err)
	}
	c.logger.Info("model uploaded", "model_id", model.ID, "file", filepath.Base(filePath))
	return &model, nil
}

// -----------------------------------------------------------------------------
// Folders
// -----------------------------------------------------------------------------

// ListFolders fetches all folders visible to the tenant.
func (c *Client) ListFolders(ctx context.Context) ([]Folder, error) {
	var resp folderListResponse
	if err := c.getJSON(ctx, c.baseURL+"/v2/folders", nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Folders, nil
}

// CreateFolder creates a folder and returns the stored record.
func (c *Client) CreateFolder(ctx context.Context, name string) (*Folder, error) {
	payload, err := json.Marshal(folderCreateRequest{Name: name})
	if err != nil {
		return nil, parseError(name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/folders", bytes.NewReader(payload))
	if err != nil {
		return nil, connectionError(name, err)
	}
	c.setCommonHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, name, err)
	}
	defer resp.Body.Close()

	if serr := c.evaluateStatus(resp, name); serr != nil {
		return nil, serr
	}

	var created folderCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, parseError(name, err)
	}
	c.logger.Info("folder created", "folder_id", created.Folder.ID, "name", created.Folder.Name)
	return &created.Folder, nil
}

// DeleteFolders deletes the folders with the given ids.
func (c *Client) DeleteFolders(ctx context.Context, ids []uint32) error {
	query := url.Values{}
	for _, id := range ids {
		query.Add("folderIds", strconv.FormatUint(uint64(id), 10))
	}
	return c.doNoBody(ctx, http.MethodDelete, c.baseURL+"/v2/folders", query, "")
}

// -----------------------------------------------------------------------------
// Properties (Metadata Keys)
// -----------------------------------------------------------------------------

// ListProperties fetches all metadata key definitions.
func (c *Client) ListProperties(ctx context.Context) ([]Property, error) {
	var resp propertyListResponse
	if err := c.getJSON(ctx, c.baseURL+"/v2/metadata-keys", nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.MetadataKeys, nil
}

// CreateProperty creates a metadata key and returns the stored record.
func (c *Client) CreateProperty(ctx context.Context, name string) (*Property, error) {
	payload, err := json.Marshal(propertyCreateRequest{MetadataKeyName: name})
	if err != nil {
		return nil, parseError(name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/metadata-keys", bytes.NewReader(payload))
	if err != nil {
		return nil, connectionError(name, err)
	}
	c.setCommonHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, name, err)
	}
	defer resp.Body.Close()

	if serr := c.evaluateStatus(resp, name); serr != nil {
		return nil, serr
	}

	var created propertyCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, parseError(name, err)
	}
	c.logger.Info("property created", "property_id", created.MetadataKey.ID, "name", created.MetadataKey.Name)
	return &created.MetadataKey, nil
}

// SetModelProperty sets the value of one metadata property on a model.
func (c *Client) SetModelProperty(ctx context.Context, modelID uuid.UUID, keyID uint64, value string) error {
	payload, err := json.Marshal(propertyValueRequest{Value: value})
	if err != nil {
		return parseError(modelID.String(), err)
	}

	endpoint := fmt.Sprintf("%s/v2/models/%s/metadata/%d",
		c.baseURL, url.PathEscape(modelID.String()), keyID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return connectionError(modelID.String(), err)
	}
	c.setCommonHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(ctx, modelID.String(), err)
	}
	defer resp.Body.Close()

	return c.evaluateStatus(resp, modelID.String())
}

// DeleteModelProperty removes one metadata property from a model.
func (c *Client) DeleteModelProperty(ctx context.Context, modelID uuid.UUID, keyID uint64) error {
	endpoint := fmt.Sprintf("%s/v2/models/%s/metadata/%d",
		c.baseURL, url.PathEscape(modelID.String()), keyID)
	return c.doNoBody(ctx, http.MethodDelete, endpoint, nil, modelID.String())
}

// -----------------------------------------------------------------------------
// Request Plumbing
// -----------------------------------------------------------------------------

// setCommonHeaders attaches the headers every request carries.
func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("X-PHYSNA-TENANTID", c.tenant)
	req.Header.Set("User-Agent", userAgent)
}

// getJSON performs a GET request and decodes the JSON response into target.
func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, resource string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return connectionError(resource, err)
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	c.setCommonHeaders(req)

	c.logger.Debug("GET", "url", req.URL.String())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(ctx, resource, err)
	}
	defer resp.Body.Close()

	if serr := c.evaluateStatus(resp, resource); serr != nil {
		return serr
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return parseError(resource, err)
	}
	return nil
}

// doNoBody performs a request whose success response body is ignored.
func (c *Client) doNoBody(ctx context.Context, method, endpoint string, query url.Values, resource string) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return connectionError(resource, err)
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	c.setCommonHeaders(req)

	c.logger.Debug(method, "url", req.URL.String())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(ctx, resource, err)
	}
	defer resp.Body.Close()

	return c.evaluateStatus(resp, resource)
}

// evaluateStatus classifies a response status into a ServiceError.
//
// Returns nil for any 2xx status. The body is read (best effort) for
// failure statuses so the detail can be surfaced.
func (c *Client) evaluateStatus(resp *http.Response, resource string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := strings.TrimSpace(string(body))

	switch resp.StatusCode {
	case http.StatusNotFound:
		return &ServiceError{
			Type:        ServiceErrorNotFound,
			Resource:    resource,
			Message:     "The requested resource was not found",
			Detail:      detail,
			Remediation: "Check the uuid or name; the record may have been deleted",
		}
	case http.StatusUnauthorized:
		return &ServiceError{
			Type:        ServiceErrorUnauthorized,
			Resource:    resource,
			Message:     "The service rejected the access token",
			Detail:      detail,
			Remediation: "Run 'partgraph token invalidate' and retry to refresh the token",
		}
	case http.StatusForbidden:
		return &ServiceError{
			Type:        ServiceErrorForbidden,
			Resource:    resource,
			Message:     "The token does not permit this operation",
			Detail:      detail,
			Remediation: "Check that the client id has access to this tenant",
		}
	default:
		return &ServiceError{
			Type:     ServiceErrorUnsupported,
			Resource: resource,
			Message:  fmt.Sprintf("The service returned status %d", resp.StatusCode),
			Detail:   detail,
		}
	}
}

// transportError classifies a transport-level failure.
func (c *Client) transportError(ctx context.Context, resource string, err error) error {
	if ctx.Err() != nil {
		return &ServiceError{
			Type:        ServiceErrorCancelled,
			Resource:    resource,
			Message:     "Request cancelled",
			Detail:      ctx.Err().Error(),
			Remediation: "Try again or increase the timeout",
		}
	}
	return connectionError(resource, err)
}

func connectionError(resource string, err error) error {
	return &ServiceError{
		Type:        ServiceErrorConnection,
		Resource:    resource,
		Message:     "Cannot reach the service",
		Detail:      err.Error(),
		Remediation: "Check the base_url in the configuration and your network connection",
	}
}

func parseError(resource string, err error) error {
	return &ServiceError{
		Type:        ServiceErrorParse,
		Resource:    resource,
		Message:     "Failed to process the service payload",
		Detail:      err.Error(),
		Remediation: "This may indicate an API version mismatch",
	}
}
