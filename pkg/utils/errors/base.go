package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// OK represents a successful operation.
var OK = Register(New(0, http.StatusOK, codes.OK, "Success", "成功"))

// 请求错误 (类别 01)
var (
	ErrBadRequest       = Register(New(MakeCode(ServiceCommon, CategoryRequest, 0), http.StatusBadRequest, codes.InvalidArgument, "Bad request", "请求错误"))
	ErrInvalidParam     = Register(New(MakeCode(ServiceCommon, CategoryRequest, 1), http.StatusBadRequest, codes.InvalidArgument, "Invalid parameter", "参数无效"))
	ErrValidationFailed = Register(New(MakeCode(ServiceCommon, CategoryRequest, 4), http.StatusBadRequest, codes.InvalidArgument, "Validation failed", "验证失败"))
)

// 认证错误 (类别 02)
var (
	ErrUnauthorized = Register(New(MakeCode(ServiceCommon, CategoryAuth, 0), http.StatusUnauthorized, codes.Unauthenticated, "Unauthorized", "未授权"))
	ErrInvalidToken = Register(New(MakeCode(ServiceCommon, CategoryAuth, 1), http.StatusUnauthorized, codes.Unauthenticated, "Invalid token", "令牌无效"))
	ErrTokenExpired = Register(New(MakeCode(ServiceCommon, CategoryAuth, 2), http.StatusUnauthorized, codes.Unauthenticated, "Token expired", "令牌已过期"))
	ErrTokenRevoked = Register(New(MakeCode(ServiceCommon, CategoryAuth, 3), http.StatusUnauthorized, codes.Unauthenticated, "Token revoked", "令牌已注销"))
)

// 权限错误 (类别 03)
var (
	ErrForbidden = Register(New(MakeCode(ServiceCommon, CategoryPermission, 0), http.StatusForbidden, codes.PermissionDenied, "Forbidden", "禁止访问"))
)

// 资源错误 (类别 04)
var (
	ErrNotFound      = Register(New(MakeCode(ServiceCommon, CategoryResource, 0), http.StatusNotFound, codes.NotFound, "Resource not found", "资源不存在"))
	ErrRouteNotFound = Register(New(MakeCode(ServiceCommon, CategoryResource, 4), http.StatusNotFound, codes.NotFound, "Route not found", "路由不存在"))
)

// 内部错误 (类别 07)
var (
	ErrInternal = Register(New(MakeCode(ServiceCommon, CategoryInternal, 0), http.StatusInternalServerError, codes.Internal, "Internal server error", "服务器内部错误"))
	ErrPanic    = Register(New(MakeCode(ServiceCommon, CategoryInternal, 2), http.StatusInternalServerError, codes.Internal, "Internal server panic", "服务器内部异常"))
)

// 存储错误 (类别 08, 09)
var (
	ErrDatabase = Register(New(MakeCode(ServiceInfraDB, CategoryDatabase, 0), http.StatusInternalServerError, codes.Internal, "Database error", "数据库错误"))
	ErrCache    = Register(New(MakeCode(ServiceInfraCache, CategoryCache, 0), http.StatusInternalServerError, codes.Internal, "Cache error", "缓存错误"))
)
