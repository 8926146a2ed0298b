package util

import (
	"context"
	"net"
	"net/netip"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/token"
)

type DeviceInfo struct {
	UserAgent  string
	IPAddress  netip.Addr
	DeviceType string
}

// GetDeviceInfoFromContext 從請求上下文中獲取設備相關資訊
// 資訊不存在或IP解析失敗時對應欄位為空值
func GetDeviceInfoFromContext(ctx context.Context) DeviceInfo {
	var info DeviceInfo

	if ua, ok := ctx.Value(constants.AuthorizationUserAgentKey).(string); ok {
		info.UserAgent = ua
	}

	if ipStr, ok := ctx.Value(constants.AuthorizationIPKey).(string); ok {
		// 移除端口部分（如果有）
		if host, _, err := net.SplitHostPort(ipStr); err == nil {
			ipStr = host
		}
		if addr, err := netip.ParseAddr(ipStr); err == nil {
			info.IPAddress = addr
		}
	}

	if di, ok := ctx.Value(constants.AuthorizationDeviceInfoKey).(string); ok {
		info.DeviceType = di
	}

	return info
}

func GetTokenPayloadFromContext(ctx context.Context) *token.Payload {
	if v, ok := ctx.Value(constants.AuthorizationPayloadKey).(*token.Payload); ok {
		return v
	}
	return nil
}

func WithTokenPayload(ctx context.Context, payload *token.Payload) context.Context {
	return context.WithValue(ctx, constants.AuthorizationPayloadKey, payload)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, constants.RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(constants.RequestIDKey).(string); ok {
		return v
	}
	return "unknown"
}
