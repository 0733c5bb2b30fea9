// Package services contains the application's core business logic.
// Services implement the driving ports and depend only on the driven
// ports, never on concrete adapters.
package services
