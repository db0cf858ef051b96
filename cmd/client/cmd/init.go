package cmd

import (
	"aggyweb/cmd/client/cmd/auth"
	"aggyweb/cmd/client/cmd/gram"
	"aggyweb/cmd/client/cmd/post"
	"aggyweb/cmd/client/cmd/user"
)

func init() {
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.RegisterCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)
	auth.AuthCmd.AddCommand(auth.WhoamiCmd)

	rootCmd.AddCommand(user.UserCmd)
	user.UserCmd.AddCommand(user.ListCmd)
	user.UserCmd.AddCommand(user.UpdateCmd)

	rootCmd.AddCommand(post.PostCmd)
	post.PostCmd.AddCommand(post.ListCmd)
	post.PostCmd.AddCommand(post.GetCmd)
	post.PostCmd.AddCommand(post.SubmitCmd)

	rootCmd.AddCommand(gram.GramCmd)
	gram.GramCmd.AddCommand(gram.GetCmd)
	gram.GramCmd.AddCommand(gram.ReplyCmd)
	gram.GramCmd.AddCommand(gram.PublishCmd)
}
