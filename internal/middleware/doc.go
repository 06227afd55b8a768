// Package middleware holds the gin middleware shared by every catalog route:
// security headers, CSRF protection and cookie sessions carrying flash messages.
package middleware
