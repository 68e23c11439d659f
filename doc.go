/*
Go GitHub Uploader is a small bulk uploader for the GitHub Contents API.

It walks a local directory tree, filters the files it finds and pushes each eligible file to a
GitHub repository with one PUT /repos/{owner}/{repo}/contents/{path} request per file. The run is
strictly sequential: a file is read, encoded and uploaded before the next one is considered.

Two modes exist:

  - essentials: only files under a fixed set of top level directories (src/, components/,
    server/, ...) plus root level files are uploaded, and the run stops once 100 files made it.
  - full: everything except dependency caches, VCS metadata and local tool state is uploaded,
    with no cap. The summary lists the first 10 failures.

Failed uploads are reported and skipped; there are no retries. GitHub rejects a PUT for a path that
already exists unless the request carries the current blob SHA, so uploads are create-only unless
--update is given.

Files can also be mirrored to an S3 bucket instead (--store s3), which is where this tool started.
*/
package main
