// Package botifactory is a client for a release distribution server that
// hosts projects, channels within a project, and versioned release
// binaries within a channel.
//
// Operations are grouped into three scopes. A [Botifactory] is bound to an
// endpoint and a project. [Botifactory.Channel] narrows it to a
// [ChannelAPI], and [ChannelAPI.Release] narrows that to a [ReleaseAPI].
// Channels and releases are addressed by an [Identifier], built with
// [ByName] or [ByID]:
//
//	bf, err := botifactory.New("https://releases.example.com", "bot")
//	if err != nil {
//		return err
//	}
//
//	stable := bf.Channel(botifactory.ByName("stable"))
//	rel, err := stable.LatestRelease(ctx)
//	if err != nil {
//		return err
//	}
//
//	err = stable.Release(botifactory.ByID(rel.ID)).BinaryToPath(ctx, "bot.bin",
//		botifactory.VerifyHash(sha256.New(), rel.Hash))
//
// URL builders such as [ChannelAPI.LatestReleaseURL] never perform I/O.
// The server layout they follow is described by [Routes]; [DefaultRoutes]
// is used unless [WithRoutes] says otherwise.
//
// Every failure is an [*Error] whose Kind is one of [ErrURLParse],
// [ErrURLPath], [ErrInvalidIdentifier], [ErrRequest], [ErrIO],
// [ErrHeaderValue] or [ErrInvalidInput].
package botifactory
