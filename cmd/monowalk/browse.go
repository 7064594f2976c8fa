package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/unityscope/monowalk"
	"github.com/unityscope/monowalk/internal/ui/colorize"
)

var browseImage string

func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactively browse a class's fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, closeFn, err := openTarget()
			if err != nil {
				return err
			}
			defer closeFn()

			att, ok, err := monowalk.TryAttach(proc)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no supported Mono/IL2CPP runtime detected")
			}

			var img *monowalk.Image
			if browseImage == "" {
				img, ok, err = att.GetDefaultImage()
			} else {
				img, ok, err = att.GetImage(browseImage)
			}
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("image not found")
			}

			p := tea.NewProgram(newBrowseModel(att, img))
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&browseImage, "image", "", "assembly to browse (defaults to Assembly-CSharp)")
	return cmd
}

type browseModel struct {
	attachment *monowalk.Attachment
	image      *monowalk.Image
	input      textinput.Model
	className  string
	result     string
	err        error
}

func newBrowseModel(att *monowalk.Attachment, img *monowalk.Image) browseModel {
	ti := textinput.New()
	ti.Placeholder = "PlayerController"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 40
	return browseModel{attachment: att, image: img, input: ti}
}

func (m browseModel) Init() tea.Cmd { return textinput.Blink }

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
)

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		m.className = m.input.Value()
		class, ok, err := m.image.GetClass(m.className)
		switch {
		case err != nil:
			m.err = err
		case !ok:
			m.err = nil
			m.result = fmt.Sprintf("class %q not found", m.className)
		default:
			m.err = nil
			parent, _, _ := class.GetParent()
			parentName := "(none)"
			if parent != nil {
				parentName = "found"
			}
			m.result = fmt.Sprintf("resolved %s — parent: %s", colorize.Class(m.className), parentName)
		}
		m.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	s := headerStyle.Render("monowalk browse") + "\n\n"
	s += "class name: " + m.input.View() + "\n\n"
	if m.err != nil {
		s += errorStyle.Render(m.err.Error()) + "\n"
	} else if m.result != "" {
		s += m.result + "\n"
	}
	s += "\n(enter to resolve, esc to quit)\n"
	return s
}
