package adminapi

import (
	"github.com/gofiber/fiber/v2"
)

func errorBody(code, description string) fiber.Map {
	return fiber.Map{
		"error":             code,
		"error_description": description,
	}
}

func errorInvalidRequest(description string) fiber.Map {
	return errorBody("invalid_request", description)
}

func errorInvalidClient(description string) fiber.Map {
	return errorBody("invalid_client", description)
}

func errorForbidden(description string) fiber.Map {
	return errorBody("forbidden", description)
}

func errorServerError(description string) fiber.Map {
	return errorBody("server_error", description)
}
