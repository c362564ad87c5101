package models

// Domain models matching the database schema in db/migrations/0001_init.sql.
// JSON field names follow the public wire format; the password hash is never
// serialized.

type Company struct {
	Handle       string  `json:"handle" db:"handle"`
	Name         string  `json:"name" db:"name"`
	NumEmployees *int64  `json:"num_employees" db:"num_employees"`
	Description  *string `json:"description" db:"description"`
	LogoURL      *string `json:"logo_url" db:"logo_url"`
}

type Job struct {
	ID            int64    `json:"id" db:"id"`
	Title         string   `json:"title" db:"title"`
	Salary        *float64 `json:"salary" db:"salary"`
	Equity        *float64 `json:"equity" db:"equity"`
	CompanyHandle string   `json:"companyHandle" db:"company_handle"`
	DatePosted    int64    `json:"datePosted" db:"date_posted"`
}

type User struct {
	Username     string  `json:"username" db:"username"`
	PasswordHash string  `json:"-" db:"password"`
	FirstName    string  `json:"firstName" db:"first_name"`
	LastName     string  `json:"lastName" db:"last_name"`
	Email        string  `json:"email" db:"email"`
	PhotoURL     *string `json:"photoUrl" db:"photo_url"`
	IsAdmin      bool    `json:"isAdmin" db:"is_admin"`
}
