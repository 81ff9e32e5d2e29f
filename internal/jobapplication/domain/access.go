package domain

// Actor 经过认证的调用者
// 身份由上游网关注入；身份缺失只出现在内部调用与测试中
type Actor struct {
	UserID string
	Role   Role
}

// Scope 列表查询的可见范围过滤
type Scope struct {
	// 限定申请人
	StudentID string
	// 限定企业
	CompanyID string
	// 排除的状态（企业不可见 WITHDRAWN）
	ExcludeStatuses []Status
}

// ScopeFor 计算调用者的列表可见范围
// companyID 为企业角色调用者名下企业，其余角色忽略
func ScopeFor(actor Actor, companyID string) Scope {
	switch actor.Role {
	case RoleStudent:
		return Scope{StudentID: actor.UserID}
	case RoleCompany:
		return Scope{CompanyID: companyID, ExcludeStatuses: []Status{StatusWithdrawn}}
	default:
		return Scope{}
	}
}

// Authorize 单条申请的访问检查
// 企业访问已撤回的申请返回 ErrNotFound 而非 ErrForbidden，撤回对企业不可见
func Authorize(app *Application, actor Actor, companyID string) error {
	switch actor.Role {
	case RoleAdmin:
		return nil
	case RoleStudent:
		if app.StudentID != actor.UserID {
			return ErrForbidden
		}
		return nil
	case RoleCompany:
		if app.CompanyID != companyID {
			return ErrForbidden
		}
		if app.Status == StatusWithdrawn {
			return ErrNotFound
		}
		return nil
	case "":
		// 身份缺失时不做限制，仅用于内部调用
		return nil
	default:
		return ErrForbidden
	}
}
