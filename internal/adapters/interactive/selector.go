package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/treasury-cli/internal/domain/config"
	"github.com/trebuchet-org/treasury-cli/internal/domain/models"
	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// ErrNonInteractive is returned when a prompt is needed but prompts are disabled
var ErrNonInteractive = errors.New("interactive prompt not available in non-interactive mode")

// Prompter asks the operator for confirmations and selections
type Prompter struct {
	config *config.RuntimeConfig
}

// NewPrompter creates a new prompter
func NewPrompter(cfg *config.RuntimeConfig) *Prompter {
	return &Prompter{config: cfg}
}

// Confirm asks a yes/no question. Non-interactive runs are treated as yes,
// since the operator opted out of prompts.
func (p *Prompter) Confirm(prompt string) (bool, error) {
	if p.config.NonInteractive {
		return true, nil
	}

	confirm := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}
	if _, err := confirm.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SelectProposal picks one proposal from a list
func (p *Prompter) SelectProposal(ctx context.Context, proposals []*models.Proposal, prompt string) (*models.Proposal, error) {
	if len(proposals) == 0 {
		return nil, fmt.Errorf("no proposals to select from")
	}
	if len(proposals) == 1 {
		return proposals[0], nil
	}
	if p.config.NonInteractive {
		return nil, ErrNonInteractive
	}

	options := formatProposalOptions(proposals)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          fuzzySearcher(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}
	return proposals[index], nil
}

// formatProposalOptions renders "#id title (for/against)" lines
func formatProposalOptions(proposals []*models.Proposal) []string {
	options := make([]string, len(proposals))
	for i, proposal := range proposals {
		id := color.New(color.FgWhite, color.Bold).Sprintf("#%d", proposal.ID)
		votes := color.New(color.FgBlue).Sprintf("%d for / %d against", proposal.VotesFor, proposal.VotesAgainst)
		options[i] = fmt.Sprintf("%s %s (%s)", id, proposal.Title, votes)
	}
	return options
}

// fuzzySearcher matches by substring first, then fuzzily
func fuzzySearcher(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])
		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

var (
	_ usecase.Confirmer        = (*Prompter)(nil)
	_ usecase.ProposalSelector = (*Prompter)(nil)
)
