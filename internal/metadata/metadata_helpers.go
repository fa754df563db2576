// Package metadata 解析网关注入的请求头，并在 Context 中传递调用方身份。
package metadata

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// 网关与链路约定的 Header 名称（小写）。
const (
	HeaderUserInfo  = "x-apigateway-api-userinfo"
	HeaderRequestID = "x-md-request-id"
)

// Header 抽象只读请求头，kratos transport.Header 与 http.Header 均满足。
type Header interface {
	Get(key string) string
}

// HandlerMetadata 描述从请求头解析出的调用方信息。
type HandlerMetadata struct {
	UserID          string
	RequestID       string
	RawUserInfo     string
	InvalidUserInfo bool
}

// IsZero 判断 Metadata 是否为空。
func (m HandlerMetadata) IsZero() bool {
	return m.UserID == "" &&
		m.RequestID == "" &&
		m.RawUserInfo == "" &&
		!m.InvalidUserInfo
}

// FromHeader 解析请求头；userinfo 无法解码或缺少用户标识时标记 InvalidUserInfo。
func FromHeader(h Header) HandlerMetadata {
	if h == nil {
		return HandlerMetadata{}
	}
	meta := HandlerMetadata{
		RequestID:   strings.TrimSpace(h.Get(HeaderRequestID)),
		RawUserInfo: strings.TrimSpace(h.Get(HeaderUserInfo)),
	}
	if meta.RawUserInfo == "" {
		return meta
	}
	userID, err := ExtractUserIDFromUserInfo(meta.RawUserInfo)
	if err != nil || userID == "" {
		meta.InvalidUserInfo = true
		return meta
	}
	meta.UserID = userID
	return meta
}

type ctxKey struct{}

// Inject 将 HandlerMetadata 注入 Context。
func Inject(ctx context.Context, meta HandlerMetadata) context.Context {
	if meta.IsZero() {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, meta)
}

// FromContext 读取上游注入的 HandlerMetadata。
func FromContext(ctx context.Context) (HandlerMetadata, bool) {
	if ctx == nil {
		return HandlerMetadata{}, false
	}
	meta, ok := ctx.Value(ctxKey{}).(HandlerMetadata)
	return meta, ok
}

// UserIDFromContext 返回 Context 中的调用方用户标识。
func UserIDFromContext(ctx context.Context) string {
	meta, _ := FromContext(ctx)
	return meta.UserID
}

// ExtractUserIDFromUserInfo 从 X-Apigateway-Api-Userinfo 头中解析用户标识，依次尝试 sub、user_id、uid。
func ExtractUserIDFromUserInfo(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	payload, err := decodeUserInfo(raw)
	if err != nil {
		return "", err
	}
	var claims map[string]any
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", err
	}
	for _, key := range []string{"sub", "user_id", "uid"} {
		if value, ok := claims[key].(string); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value), nil
		}
	}
	return "", nil
}

func decodeUserInfo(raw string) ([]byte, error) {
	decoders := []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.StdEncoding,
		base64.RawStdEncoding,
	}
	for _, enc := range decoders {
		if payload, err := enc.DecodeString(raw); err == nil {
			return payload, nil
		}
	}
	return nil, errors.New("decode userinfo header failed")
}
