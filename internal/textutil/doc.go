// Package textutil holds small text helpers shared by reports and log lines.
package textutil
