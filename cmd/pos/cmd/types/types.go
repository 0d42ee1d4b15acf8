package types

// ContextKey keys values carried through the cobra command context.
type ContextKey string

// ClientAppKey holds the initialized *client.App for subcommands.
const ClientAppKey ContextKey = "app"
