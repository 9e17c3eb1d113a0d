/*
Package ranger initializes and manages an application mapping enum types, with sane defaults.

# Ranger

The main entrypoint to package ranger is the [Ranger] type,
constructed with [New] from a [pgenum.Catalog] of enum types.
By default, [New] connects through GORM to the database the DATABASE env vars describe,
runs a migration creating each enum type in the catalog,
and opens a pgx pool registering those types on every connection.

[*Ranger.Check] compares the catalog with the database through both connections.

# Configuration

A developer configures the application through environment variables
and by passing a [RangerOption] to [New].

Environment variables ought to be set in a file called ".env"
found at the same directory the application is executed from.

Here are the available environment variables.
  - DATABASE_HOST: the host the database is running on; default: localhost
  - DATABASE_MAX_CXNS: the most connections the pgx pool opens, at least 1; default: 4
  - DATABASE_MAX_IDLE_CXNS: the most idle connections GORM keeps; default: 1
  - DATABASE_NAME: the name of the database
  - DATABASE_PASSWORD: the password for authenticating a connection to the database
  - DATABASE_PORT: the port the database is listening on; default: 5432
  - DATABASE_SSLMODE: the libpq sslmode; default: prefer
  - DATABASE_URL: the fully-qualified connection string for connecting to the database; replaces all other DATABASE_* env vars
  - DATABASE_USER: the user for authenticating a connection to the database
  - DATABASE_TEST_*: the same, used in the TESTING environment
  - ENVIRONMENT: the environment the application is running in; cf. [pgenum.Environment]
  - LOG_JSON: log JSON even in DEVELOPMENT; default: false
  - LOG_LEVEL: the level at which to begin logging; default: INFO
  - SENTRY_DSN: report warnings and errors to Sentry
*/
package ranger
