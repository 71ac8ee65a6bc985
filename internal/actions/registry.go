package actions

import (
	"github.com/jredh-dev/casamento/internal/search"
)

// Action is one destination offered by the header menu and the quick search.
type Action struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Target      string   `json:"target"`
	Keywords    []string `json:"keywords"`
	InMenu      bool     `json:"-"` // shown in the header navigation
}

// Registry holds all available actions and supports search.
type Registry struct {
	actions []Action
}

// New creates a Registry pre-populated with the site's pages.
func New() *Registry {
	return &Registry{
		actions: defaultActions(),
	}
}

// Menu returns the actions shown in the header, in display order.
func (r *Registry) Menu() []Action {
	var menu []Action
	for _, a := range r.actions {
		if a.InMenu {
			menu = append(menu, a)
		}
	}
	return menu
}

// Search returns actions whose title, description or keywords contain the
// query, ignoring case. An empty query returns every action.
func (r *Registry) Search(query string) []Action {
	results := []Action{}
	for _, a := range r.actions {
		if matches(a, query) {
			results = append(results, a)
		}
	}
	return results
}

func matches(a Action, q string) bool {
	if search.Match(a.Title, q) || search.Match(a.Description, q) {
		return true
	}
	for _, kw := range a.Keywords {
		if search.Match(kw, q) {
			return true
		}
	}
	return false
}

// defaultActions returns the built-in set of site actions.
func defaultActions() []Action {
	return []Action{
		{
			ID:          "nav-home",
			Title:       "Início",
			Description: "Contagem regressiva para o grande dia",
			Target:      "/",
			Keywords:    []string{"home", "inicio", "contagem", "countdown", "data"},
			InMenu:      true,
		},
		{
			ID:          "nav-rsvp",
			Title:       "Confirmar Presença",
			Description: "Confirme sua presença e veja a lista de convidados",
			Target:      "/confirmar-presenca",
			Keywords:    []string{"rsvp", "presença", "confirmar", "convidados", "lista"},
			InMenu:      true,
		},
		{
			ID:          "nav-gifts",
			Title:       "Presentes",
			Description: "Reserve um presente da nossa lista",
			Target:      "/presentes",
			Keywords:    []string{"presentes", "lista de presentes", "gifts", "reservar", "comprar"},
			InMenu:      true,
		},
		{
			ID:          "nav-gifts-available",
			Title:       "Presentes disponíveis",
			Description: "Ver apenas presentes ainda não reservados",
			Target:      "/presentes#disponiveis",
			Keywords:    []string{"disponíveis", "available"},
		},
		{
			ID:          "calendar-invite",
			Title:       "Adicionar ao calendário",
			Description: "Salve a data no seu calendário",
			Target:      "/casamento.ics",
			Keywords:    []string{"calendario", "agenda", "ics", "save the date"},
		},
	}
}
