package errors

import "google.golang.org/grpc/codes"

// 校园服务错误码: 21 (业务服务范围 20-79)
var (
	// 请求参数错误 (类别 01)
	ErrCampusInvalidEmail  = Register(New(MakeCode(ServiceCampus, CategoryRequest, 1), 400, codes.InvalidArgument, "Invalid email address", "邮箱格式无效"))
	ErrCampusEmptyContent  = Register(New(MakeCode(ServiceCampus, CategoryRequest, 2), 400, codes.InvalidArgument, "Post content is required", "帖子内容不能为空"))
	ErrCampusEmptyAnswer   = Register(New(MakeCode(ServiceCampus, CategoryRequest, 3), 400, codes.InvalidArgument, "Answer is required", "回答内容不能为空"))
	ErrCampusBadVisibility = Register(New(MakeCode(ServiceCampus, CategoryRequest, 4), 400, codes.InvalidArgument, "Visibility must be public or internal", "可见性必须为 public 或 internal"))
	ErrCampusEmptyMessage  = Register(New(MakeCode(ServiceCampus, CategoryRequest, 5), 400, codes.InvalidArgument, "Message is required", "消息不能为空"))

	// 权限错误 (类别 03)
	ErrCampusPermissionDenied = Register(New(MakeCode(ServiceCampus, CategoryPermission, 1), 403, codes.PermissionDenied, "Role is not allowed to perform this action", "当前角色无权执行该操作"))

	// 存储错误 (类别 08)
	ErrCampusStore = Register(New(MakeCode(ServiceCampus, CategoryDatabase, 1), 500, codes.Internal, "Campus store failure", "校园数据存储失败"))

	// 外部生成服务错误 (类别 10)
	ErrLLMUnavailable = Register(New(MakeCode(ServiceThirdPartyLLM, CategoryNetwork, 1), 503, codes.Unavailable, "Generation service unavailable", "生成服务不可用"))
)
