package rbac

// Default policy. Students work their own assignments and reports; teachers
// manage their roster and see everything about their own assignments.
var RolePermissions = map[string][]string{
	"student": {
		"assignment:view",
		"submission:create",
		"submission:view-own",
		"report:view-own",
		"user:change_password",
	},
	"teacher": {
		"assignment:create",
		"assignment:view",
		"assignment:deactivate",
		"submission:view-all",
		"report:view-all",
		"student:manage",
		"user:change_password",
	},
	"admin": {
		"*", // everything
	},
}
