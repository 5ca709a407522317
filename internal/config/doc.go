// Package config defines the application configuration and its loading.
// Configuration is read once at process start from environment variables
// (prefix SAVEBUS_), validated, and passed by reference into constructors.
// It is immutable after load; business logic never reads the environment.
package config
