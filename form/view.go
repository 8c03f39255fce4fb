package form

import (
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// Render returns the form for c's current state.
//
// Once the controller reaches Submitted, only the confirmation remains and
// the inputs are gone. action is the URL the form posts to without scripts.
func Render(c *Controller, action string) g.Node {
	if c.Status() == Submitted {
		return Div(
			ID("subscribe"), Class("subscribed"),
			P(Class("thanks"), g.Text("Thank you")),
			P(g.Text("We'll be in touch.")),
		)
	}

	submitting := c.Status() == Submitting
	buttonText := "Notify Me"
	if submitting {
		buttonText = "Subscribing..."
	}
	errMsg := c.ErrorMessage()

	return Form(
		ID("subscribe"), Method("post"), Action(action),
		field("name", "text", "Name", c.Name),
		field("email", "email", "Email", c.Email),
		g.If(errMsg != "", P(Class("error"), g.Text(errMsg))),
		Button(Type("submit"), g.If(submitting, Disabled()), g.Text(buttonText)),
	)
}

func field(name, inputType, label, value string) g.Node {
	return Div(
		Class("field"),
		Label(For(name), g.Text(label)),
		Input(
			ID(name), Name(name), Type(inputType), Value(value), Required(),
		),
	)
}

// Page wraps the form in a minimal standalone document.
func Page(title string, form g.Node) g.Node {
	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(g.Text(title)),
			),
			Body(Main(form)),
		),
	})
}
