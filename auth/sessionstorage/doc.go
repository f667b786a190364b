// Package sessionstorage provides fiber.Storage implementations the session
// middleware can keep its data in. Without one, sessions live in process memory.
package sessionstorage
