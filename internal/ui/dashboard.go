package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CodexEmmzy/solpay/internal/config"
	"github.com/CodexEmmzy/solpay/internal/session"
	"github.com/CodexEmmzy/solpay/internal/transfer"
)

// Dashboard is the interactive wallet surface: connection state at the
// top, a static notice when no wallet was detected, and the transfer form
// rendered only while connected. Connect and disconnect are mutually
// exclusive keybindings gated on the current state, which is also what
// prevents overlapping duplicate actions.
type Dashboard struct {
	ctrl    *session.Controller
	client  transfer.Client
	cluster string

	state  session.State
	events chan struct{}

	recipient  textinput.Model
	amount     textinput.Model
	focus      int
	submitting bool
	spin       spinner.Model
	status     string
	statusErr  bool
}

// Messages.
type (
	stateChangedMsg struct{}
	submitDoneMsg   struct {
		receipt *transfer.Receipt
		err     error
	}
)

// NewDashboard wires a dashboard to the session controller and chain
// client. The controller's change events drive every re-render.
func NewDashboard(ctrl *session.Controller, client transfer.Client, cluster string) *Dashboard {
	recipient := textinput.New()
	recipient.Placeholder = "recipient address"
	recipient.CharLimit = 64
	recipient.Width = 48

	amount := textinput.New()
	amount.Placeholder = "amount (SOL)"
	amount.CharLimit = 20
	amount.Width = 48

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StyleAccent

	d := &Dashboard{
		ctrl:      ctrl,
		client:    client,
		cluster:   cluster,
		state:     ctrl.State(),
		events:    make(chan struct{}, 1),
		recipient: recipient,
		amount:    amount,
		spin:      sp,
	}

	// Coalesce change notifications: the update loop re-reads the full
	// state snapshot, so one pending signal is enough.
	ctrl.OnChange(func(session.State) {
		select {
		case d.events <- struct{}{}:
		default:
		}
	})

	return d
}

// Run starts the TUI and blocks until quit.
func (d *Dashboard) Run() error {
	_, err := tea.NewProgram(d).Run()
	return err
}

func (d *Dashboard) Init() tea.Cmd {
	return tea.Batch(d.waitForEvent(), d.startSession())
}

func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateChangedMsg:
		wasConnected := d.state.Connected
		d.state = d.ctrl.State()
		if wasConnected && !d.state.Connected {
			d.resetForm()
		}
		if d.state.Connected && !wasConnected {
			d.focus = 0
			d.recipient.Focus()
			d.amount.Blur()
		}
		return d, d.waitForEvent()

	case submitDoneMsg:
		d.submitting = false
		if msg.err != nil {
			d.status = msg.err.Error()
			d.statusErr = true
		} else {
			d.status = "sent " + TruncateAddr(msg.receipt.Signature.String())
			d.statusErr = false
			d.recipient.SetValue("")
			d.amount.SetValue("")
		}
		return d, nil

	case spinner.TickMsg:
		if !d.submitting {
			return d, nil
		}
		var cmd tea.Cmd
		d.spin, cmd = d.spin.Update(msg)
		return d, cmd

	case tea.KeyMsg:
		return d.handleKey(msg)
	}

	return d, nil
}

func (d *Dashboard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return d, tea.Quit
	}

	if !d.state.Available {
		if msg.String() == "q" {
			return d, tea.Quit
		}
		return d, nil
	}

	if !d.state.Connected {
		switch msg.String() {
		case "q":
			return d, tea.Quit
		case "c":
			return d, d.connect()
		}
		return d, nil
	}

	// Connected: the transfer form has focus.
	switch msg.String() {
	case "ctrl+d":
		return d, d.disconnect()
	case "tab", "shift+tab":
		d.toggleFocus()
		return d, nil
	case "enter":
		if d.submitting {
			return d, nil
		}
		return d, tea.Batch(d.submit(), d.spin.Tick)
	}

	var cmd tea.Cmd
	if d.focus == 0 {
		d.recipient, cmd = d.recipient.Update(msg)
	} else {
		d.amount, cmd = d.amount.Update(msg)
	}
	return d, cmd
}

func (d *Dashboard) View() string {
	header := StyleTitle.Render("solpay") + " " + Meta("cluster: "+d.cluster) + "\n\n"

	if !d.state.Available {
		return header +
			Warn("No wallet detected.") + "\n" +
			Meta("Add a signing wallet with `solpay wallet add` and restart.") + "\n\n" +
			Meta("[q] quit") + "\n"
	}

	if !d.state.Connected {
		return header +
			Meta("Not connected.") + "\n\n" +
			Meta("[c] connect   [q] quit") + "\n"
	}

	form := "To     " + d.recipient.View() + "\n" +
		"Amount " + d.amount.View() + "\n"

	statusLine := ""
	switch {
	case d.submitting:
		statusLine = d.spin.View() + " submitting..."
	case d.statusErr:
		statusLine = Err(d.status)
	case d.status != "":
		statusLine = Success(d.status)
	}

	return header +
		Success("Connected") + "  " + Addr(TruncateAddr(d.state.PublicKey.String())) + "\n\n" +
		StyleBorder.Render(form) + "\n" +
		statusLine + "\n\n" +
		Meta("[tab] switch field   [enter] send   [ctrl+d] disconnect   [ctrl+c] quit") + "\n"
}

// --- commands ---

func (d *Dashboard) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		<-d.events
		return stateChangedMsg{}
	}
}

func (d *Dashboard) startSession() tea.Cmd {
	return func() tea.Msg {
		d.ctrl.Start(context.Background())
		return nil
	}
}

func (d *Dashboard) connect() tea.Cmd {
	return func() tea.Msg {
		d.ctrl.Connect(context.Background())
		return nil
	}
}

func (d *Dashboard) disconnect() tea.Cmd {
	return func() tea.Msg {
		d.ctrl.Disconnect(context.Background())
		return nil
	}
}

// submit builds the submitter from the live provider; it is only reachable
// from the connected branch of handleKey, so a disconnected provider never
// gets here.
func (d *Dashboard) submit() tea.Cmd {
	p := d.ctrl.Provider()
	client := d.client
	req := transfer.Request{
		Recipient: d.recipient.Value(),
		Amount:    d.amount.Value(),
	}
	d.submitting = true
	d.status = ""

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.TxConfirmTimeout)
		defer cancel()
		receipt, err := transfer.NewSubmitter(p, client).Submit(ctx, req)
		return submitDoneMsg{receipt: receipt, err: err}
	}
}

// --- helpers ---

func (d *Dashboard) toggleFocus() {
	d.focus = 1 - d.focus
	if d.focus == 0 {
		d.recipient.Focus()
		d.amount.Blur()
	} else {
		d.amount.Focus()
		d.recipient.Blur()
	}
}

func (d *Dashboard) resetForm() {
	d.recipient.SetValue("")
	d.amount.SetValue("")
	d.recipient.Blur()
	d.amount.Blur()
	d.focus = 0
	d.submitting = false
	d.status = ""
	d.statusErr = false
}
