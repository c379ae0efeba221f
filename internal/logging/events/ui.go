package events

import "github.com/atomicstack/sqs-admin-tui/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Filter  = FilterTracer{}
	Action  = ActionTracer{}
	Command = CommandTracer{}
)

func (UITracer) Focus(pane string) {
	logging.Trace("ui.focus", map[string]interface{}{"pane": pane})
}

func (UITracer) FormOpen(form string) {
	logging.Trace("ui.form-open", map[string]interface{}{"form": form})
}

func (UITracer) FormCancel(form string) {
	logging.Trace("ui.form-cancel", map[string]interface{}{"form": form})
}

func (UITracer) Confirm(op string, accepted bool) {
	logging.Trace("ui.confirm", map[string]interface{}{"op": op, "accepted": accepted})
}

func (UITracer) ErrorDismissed(message string) {
	logging.Trace("ui.error-dismissed", map[string]interface{}{"message": message})
}

func (UITracer) Resize(width, height int) {
	logging.Trace("ui.resize", map[string]interface{}{"width": width, "height": height})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

func (FilterTracer) Cleared() {
	logging.Trace("filter.clear", nil)
}

func (FilterTracer) Append(filter string, matches int) {
	logging.Trace("filter.append", map[string]interface{}{"filter": filter, "matches": matches})
}

func (FilterTracer) Backspace(filter string, matches int) {
	logging.Trace("filter.backspace", map[string]interface{}{"filter": filter, "matches": matches})
}

func (CommandTracer) Queue(action, method, target string) {
	logging.Trace("command.queue", map[string]interface{}{"action": action, "method": method, "target": target})
}

func (CommandTracer) Result(action, msgType string, err error) {
	payload := map[string]interface{}{"action": action, "msg": msgType}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("command.result", payload)
}
