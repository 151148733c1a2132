/*
	Project: Darasa - click event dispatch for the learning platform
	Target: course catalog, lesson player & student dashboard controls
*/
package darasa

/*
TODO: swagger for /v1/views/* and /v1/events

TODO: in-flight state lives in the API process; a second replica needs sticky sessions
	on (user, view) until the registry moves to a shared store.

TODO: admin: purge action_event rows older than N days (retention cmd)

FE:
	- render the effects of a dispatch in order (toast, navigate, clipboard, download)
	- send clipboard=false when navigator.clipboard is unavailable
	- DELETE /v1/views/:view on unmount
*/
