// pigman manages Product Information Guide data: a JSON API server for the
// entry tool plus one-shot commands for ingesting workbooks and publishing
// the merged export.
package main

func main() {
	Execute()
}
