// Package supabase Supabase Storage REST客户端
package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config 存储配置
type Config struct {
	ProjectURL string
	APIKey     string
	Bucket     string
	Timeout    time.Duration
}

// Client 调用 {project}/storage/v1 的瘦客户端
type Client struct {
	http   *http.Client
	prefix string
	apiKey string
	bucket string
}

// New 创建客户端
func New(cfg Config) (*Client, error) {
	if cfg.ProjectURL == "" {
		return nil, fmt.Errorf("project URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:   &http.Client{Timeout: timeout},
		prefix: strings.TrimRight(cfg.ProjectURL, "/") + "/storage/v1",
		apiKey: cfg.APIKey,
		bucket: cfg.Bucket,
	}, nil
}

// StatusError 非2xx响应
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("supabase storage: status %d: %s", e.Status, e.Body)
}

// Upload 上传对象，已存在时覆盖
func (c *Client) Upload(ctx context.Context, objectPath, contentType string, data []byte) error {
	req, err := c.newRequest(ctx, http.MethodPost, c.objectURL(objectPath), bytes.NewReader(data))
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")
	return c.do(req)
}

// Remove 删除对象
func (c *Client) Remove(ctx context.Context, objectPath string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, c.objectURL(objectPath), nil)
	if err != nil {
		return err
	}
	return c.do(req)
}

// PublicURL 公开bucket中对象的访问地址
func (c *Client) PublicURL(objectPath string) string {
	return c.prefix + "/object/public/" + c.bucket + "/" + escapePath(objectPath)
}

func (c *Client) objectURL(objectPath string) string {
	return c.prefix + "/object/" + c.bucket + "/" + escapePath(objectPath)
}

func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("apikey", c.apiKey)
	return req, nil
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Status: resp.StatusCode, Body: string(body)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// escapePath 逐段转义，保留目录分隔符
func escapePath(p string) string {
	parts := strings.Split(strings.TrimLeft(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
