package rbac

// RolePermissions is the default policy. Quiz takers need no role; only
// maintenance routes are guarded.
var RolePermissions = map[string][]string{
	"admin": {
		"history:*",
	},
}
