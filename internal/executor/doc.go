// Package executor runs a command, or an interactive shell, on a remote host
// using a password resolved from the vault.
//
// Two implementations are provided. SSHExecutor uses golang.org/x/crypto/ssh
// directly and checks host keys against a known_hosts file. SSHPassExecutor
// shells out to "sshpass -e ssh" and maps its exit status with FromExitCode:
//
//	0   success
//	1   ErrRemoteBadArguments
//	2   ErrRemoteConflictingArguments
//	3   ErrRemoteRuntime
//	4   ErrRemoteParse
//	5   ErrRemoteAuthFailed
//	6   ErrRemoteUnknownHostKey
//	7   ErrRemoteHostKeyChanged
//	255 ErrRemoteTimeout
//	*   ErrRemoteInternal
package executor
