// Package dialect holds the DDL rendering layer for the target
// database engines.
//
// pgcraft emits DDL text and trusts the target engine to validate it;
// the dialect packages own the statement vocabulary only. The sole
// dialect today is PostgreSQL:
//
//   - dialect/sql: renders graph entities into CREATE TYPE,
//     CREATE FUNCTION, CREATE AGGREGATE and CREATE OPERATOR
//     statements, and maps native Go types to SQL type names.
//
// The variant set rendered here is fixed by the engine's DDL
// vocabulary, so each entity kind has an exhaustive rendering arm
// rather than an open-ended polymorphic surface.
package dialect
