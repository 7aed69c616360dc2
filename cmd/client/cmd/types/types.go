package types

// ContextKey carries shared values between the root command and
// subcommands through the cobra context.
type ContextKey string

const ClientAppKey ContextKey = "app"
