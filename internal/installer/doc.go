// Package installer implements the selection grammar and copy semantics for
// collection installs. A parsed Selection plus a snapshot root drive three
// category passes (agents, skills, commands) that copy matching entries into
// the project's .opencode/ tree. Skills are replaced wholesale; agents and
// commands are single overwritten files.
package installer
