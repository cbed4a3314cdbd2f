package rbac

// Default policy. Every authenticated user can work with quizzes; user
// management is admin-only.
var RolePermissions = map[string][]string{
	"USER": {
		"quiz:view",
		"quiz:create",
		"quiz:update",
		"quiz:delete",
		"quiz:submit",
		"results:view-own",
	},
	"ADMIN": {
		"*", // everything
	},
}
