package guidebook

// User facing messages
const (
	msgUnauthorized       = "Acesso não autorizado"
	msgIncompleteFields   = "Campos incompletos"
	msgInvalidRequest     = "Requisição inválida"
	msgInvalidCredentials = "Credenciais inválidas"
	msgRegistrationFields = "Preencha todos os campos corretamente."
	msgUserExists         = "Usuário já existe."
	msgUserRegistered     = "Usuário cadastrado com sucesso!"
)

const (
	statusOK    = "ok"
	statusError = "erro"
)

// statusResponse is the envelope of the JSON write endpoints
type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"mensagem,omitempty"`
}

func errorResponse(msg string) statusResponse {
	return statusResponse{
		Status:  statusError,
		Message: msg,
	}
}
