package repository

import "github.com/noah-isme/resource-planner-api/pkg/table"

// TableDefinitions lists every resource exposed through the generic table endpoints,
// keyed by the resource segment of the route.
func TableDefinitions() map[string]table.Definition {
	return map[string]table.Definition{
		"persons": {
			Name:    "persons",
			Base:    `SELECT ` + personColumns + ` FROM persons`,
			Columns: []string{"id", "name", "email", "position", "active", "created_at"},
		},
		"projects": {
			Name:    "projects",
			Base:    `SELECT ` + projectColumns + ` FROM projects`,
			Columns: []string{"id", "code", "name", "client", "start_date", "end_date", "active"},
		},
		"budgets": {
			Name: "budgets",
			Base: `SELECT b.id, b.project_id, p.code AS project_code, b.name, b.amount, b.currency, b.start_date, b.end_date
	FROM budgets b JOIN projects p ON p.id = b.project_id`,
			Columns: []string{"id", "project_id", "project_code", "name", "amount", "currency", "start_date", "end_date"},
		},
		"users": {
			Name:    "users",
			Base:    `SELECT id, email, full_name, person_id, role, active, last_login, created_at FROM users`,
			Columns: []string{"id", "email", "full_name", "person_id", "role", "active", "last_login", "created_at"},
		},
		"roles": {
			Name:    "roles",
			Base:    `SELECT id, name, description FROM roles`,
			Columns: []string{"id", "name", "description"},
		},
		"assignments": {
			Name: "assignments",
			Base: `SELECT a.id, a.person_id, pe.name AS person_name, a.project_id, pr.code AS project_code,
	a.role_id, r.name AS role_name, a.week, a.hours
	FROM assignments a
	JOIN persons pe ON pe.id = a.person_id
	JOIN projects pr ON pr.id = a.project_id
	JOIN roles r ON r.id = a.role_id`,
			Columns: []string{"id", "person_id", "person_name", "project_id", "project_code", "role_id", "role_name", "week", "hours"},
		},
		"assignment-requests": {
			Name: "assignment_requests",
			Base: `SELECT ar.id, ar.person_id, pe.name AS person_name, ar.project_id, pr.code AS project_code,
	ar.role_id, ar.week, ar.hours, ar.status, ar.requested_by, ar.reviewer, ar.observations, ar.created_at
	FROM assignment_requests ar
	JOIN persons pe ON pe.id = ar.person_id
	JOIN projects pr ON pr.id = ar.project_id`,
			Columns: []string{"id", "person_id", "person_name", "project_id", "project_code", "role_id", "week", "hours", "status", "requested_by", "reviewer", "created_at"},
		},
		"control-weeks": {
			Name: "control_weeks",
			Base: `SELECT cw.id, cw.person_id, pe.name AS person_name, cw.week, cw.state, cw.closed_at
	FROM control_weeks cw JOIN persons pe ON pe.id = cw.person_id`,
			Columns: []string{"id", "person_id", "person_name", "week", "state", "closed_at"},
		},
		"early-close-requests": {
			Name: "early_close_requests",
			Base: `SELECT ec.id, ec.week_control, cw.person_id, pe.name AS person_name, cw.week, ec.message, ec.requested_by, ec.created_at
	FROM early_close_requests ec
	JOIN control_weeks cw ON cw.id = ec.week_control
	JOIN persons pe ON pe.id = cw.person_id`,
			Columns: []string{"id", "week_control", "person_id", "person_name", "week", "message", "requested_by", "created_at"},
		},
		"reviews": {
			Name:    "reviews",
			Base:    `SELECT ` + reviewColumns + ` FROM reviews`,
			Columns: []string{"id", "data_type", "data_reference", "status", "comments", "reviewer", "created_at", "updated_at"},
		},
		"identifications": reviewedTable("identifications", "identification", []string{"document_type", "number", "issued_at", "expires_at"}),
		"residences":      reviewedTable("residences", "residence", []string{"country", "city", "address", "since"}),
		"certifications":  reviewedTable("certifications", "certification", []string{"name", "issuer", "issued_at", "expires_at"}),
		"laboral-experiences": reviewedTable("laboral_experiences", "laboral_experience",
			[]string{"company", "position", "start_date", "end_date", "functions"}),
		"project-experiences": reviewedTable("project_experiences", "project_experience",
			[]string{"project_name", "client", "role", "start_date", "end_date", "description"}),
		"documents": reviewedTable("documents", "document", []string{"kind", "filename", "mime_type", "size_bytes", "created_at"}),
	}
}

// reviewedTable joins an HR table with its review so listings can filter on status.
func reviewedTable(name, reviewType string, fields []string) table.Definition {
	base := `SELECT t.id, t.person_id, pe.name AS person_name`
	for _, f := range fields {
		base += `, t.` + f
	}
	base += `, COALESCE(rv.status, 'pending') AS review_status, rv.comments AS review_comments
	FROM ` + name + ` t
	JOIN persons pe ON pe.id = t.person_id
	LEFT JOIN reviews rv ON rv.data_type = '` + reviewType + `' AND rv.data_reference = t.id::text`

	columns := append([]string{"id", "person_id", "person_name"}, fields...)
	columns = append(columns, "review_status", "review_comments")
	return table.Definition{Name: name, Base: base, Columns: columns}
}
