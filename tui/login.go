package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"sportzone-cli/model"
	"sportzone-cli/session"
)

const (
	loginIdentifier = iota
	loginPassword
)

func newLoginInputs() [2]textinput.Model {
	identifier := textinput.New()
	identifier.Placeholder = "email or username"
	identifier.Prompt = "Login:    "
	identifier.CharLimit = 128

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password: "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	return [2]textinput.Model{identifier, password}
}

func (m *appModel) openLogin(returnState appState) tea.Cmd {
	m.loginReturn = returnState
	m.loginInputs[loginIdentifier].SetValue("")
	m.loginInputs[loginPassword].SetValue("")
	m.loginFocus = loginIdentifier
	m.loginInputs[loginPassword].Blur()
	m.state = stateLogin
	return m.loginInputs[loginIdentifier].Focus()
}

func (m appModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.notice = ""
		m.state = m.loginReturn
		return m, nil
	case "tab", "shift+tab", "up", "down":
		return m, m.focusLogin(1 - m.loginFocus)
	case "enter":
		if m.loginFocus == loginIdentifier {
			return m, m.focusLogin(loginPassword)
		}
		creds := model.Credentials{
			Identifier: strings.TrimSpace(m.loginInputs[loginIdentifier].Value()),
			Password:   m.loginInputs[loginPassword].Value(),
		}
		if creds.Identifier == "" || creds.Password == "" {
			m.notice = "Enter your login and password."
			return m, nil
		}
		m.notice = "Signing in..."
		return m, m.loginCmd(creds)
	}

	var cmd tea.Cmd
	m.loginInputs[m.loginFocus], cmd = m.loginInputs[m.loginFocus].Update(msg)
	return m, cmd
}

func (m *appModel) focusLogin(field int) tea.Cmd {
	m.loginFocus = field
	for i := range m.loginInputs {
		if i != field {
			m.loginInputs[i].Blur()
		}
	}
	return m.loginInputs[field].Focus()
}

func (m appModel) finishLogin(msg loginMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.notice = msg.err.Error()
		return m, nil
	}
	s := session.FromLogin(msg.user)
	if err := m.save(s); err != nil {
		m.logger.Warn("could not persist session", zap.Error(err))
	}
	m.setSession(&s)
	m.notice = "Welcome, " + displayName(s.User) + "."
	m.state = m.loginReturn
	if m.state == stateLogin {
		m.state = stateSelectVenue
	}
	return m, nil
}

func (m *appModel) setSession(s *session.Session) {
	m.session = s
	m.client = m.client.WithSession(s)
}

func (m *appModel) logout() tea.Cmd {
	m.setSession(nil)
	m.notice = "Signed out."
	return func() tea.Msg {
		if err := session.Clear(); err != nil {
			return actionMsg{err: errors.New("could not remove saved session: " + err.Error())}
		}
		return nil
	}
}

func (m appModel) loginView() string {
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("Sign in"),
		"",
		m.loginInputs[loginIdentifier].View(),
		m.loginInputs[loginPassword].View(),
	}
	if m.notice != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render(m.notice))
	}
	lines = append(lines, "", hint("No account? Run `sportzone signup`."))
	return lipgloss.NewStyle().
		Padding(1, 3).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(strings.Join(lines, "\n"))
}
