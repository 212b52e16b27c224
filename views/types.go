package views

// Messages shown in place of the dynamic reviews.
const (
	MsgNotConfigured = "Avaliações do Google não configuradas. Configure a chave de API no backend."
	MsgUnavailable   = "Não foi possível carregar as avaliações do Google."
	MsgNoReviews     = "Nenhuma avaliação encontrada."
	msgStaticKept    = "As avaliações estáticas continuarão sendo exibidas."
)

// Badge carries the aggregate rating shown above the cards.
type Badge struct {
	Rating float64
	Count  int
}
