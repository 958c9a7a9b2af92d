package i18n

var ptBR = map[Code]string{
	CodeUnknown:             "Algo deu errado. Tente novamente.",
	CodeEmailInvalid:        "Informe um e-mail válido.",
	CodePasswordTooShort:    "A senha deve ter pelo menos {{.Min}} caracteres.",
	CodeNameRequired:        "O nome é obrigatório.",
	CodeMessageEmpty:        "A mensagem não pode ficar vazia.",
	CodeMessageTooLong:      "A mensagem deve ter no máximo {{.Max}} caracteres.",
	CodeRoomRequired:        "Escolha um chat da família primeiro.",
	CodeActivityTitleEmpty:  "O título da atividade é obrigatório.",
	CodeActivityTitleLong:   "O título da atividade deve ter no máximo {{.Max}} caracteres.",
	CodeActivityStatus:      "Status de atividade desconhecido {{.Value}}.",
	CodeActivityPriority:    "Prioridade de atividade desconhecida {{.Value}}.",
	CodeActivityExpiredDate: "A data de expiração deve estar no futuro.",
	CodeFamilyRequired:      "Escolha uma família primeiro.",
	CodeNoConnectivity:      "Sem conexão com a internet. Verifique sua rede e tente novamente.",
	CodeNetwork:             "Não foi possível falar com o servidor. Tente novamente.",
	CodeBadRequest:          "A requisição é inválida: {{.Detail}}",
	CodeUnauthorized:        "E-mail ou senha incorretos, ou sua sessão terminou.",
	CodeForbidden:           "Você não tem permissão para fazer isso.",
	CodeNotFound:            "Não encontramos o que você procurava.",
	CodeServerError:         "O servidor teve um problema. Tente mais tarde.",
	CodeUnexpectedStatus:    "Resposta inesperada do servidor ({{.Status}}).",
	CodeTokenInvalid:        "Sua sessão é inválida. Entre novamente.",
	CodeTokenExpired:        "Sua sessão expirou. Entre novamente.",
	CodeNotAuthenticated:    "Entre na sua conta primeiro.",
	CodeSocketError:         "Conexão do chat perdida. Ela será refeita quando você enviar uma mensagem.",
	CodeSendFailed:          "Não foi possível enviar sua mensagem.",
}
