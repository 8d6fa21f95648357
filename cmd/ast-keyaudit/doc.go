// Package main provides the entry point for ast-keyaudit.
//
// ast-keyaudit lists the API keys of a tenant, i.e. the offline sessions
// of the ast-app client in the tenant's identity provider realm, and
// writes them to a report:
//
//	ast-keyaudit --base-url https://ast.checkmarx.net --tenant acme --api-key $KEY
//	ast-keyaudit -c keyaudit.yaml -f json -o api_keys.json
//
// Every flag except --config and --env-file can also be given as a
// KEYAUDIT_* environment variable, in a dotenv file or in the YAML file.
package main
