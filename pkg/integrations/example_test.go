package integrations_test

import (
	"fmt"

	"github.com/matzehuels/modpublish/pkg/integrations"
)

func ExampleJoinURL() {
	// Path segments are escaped individually
	fmt.Println(integrations.JoinURL("https://api.modrinth.com/v2", "project", "sodium", "version"))
	fmt.Println(integrations.JoinURL("https://api.github.com", "repos", "owner", "repo", "releases", "tags", "v1.0 beta"))
	// Output:
	// https://api.modrinth.com/v2/project/sodium/version
	// https://api.github.com/repos/owner/repo/releases/tags/v1.0%20beta
}

func ExampleForm() {
	form := integrations.NewForm().AddFile("file", "mymod-1.0.0.jar", "build/libs/mymod-1.0.0.jar")
	if err := form.AddJSON("data", map[string]any{"featured": true}); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(form.Len())
	// Output:
	// 2
}
